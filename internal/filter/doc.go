// Package filter decides keep/drop per candidate using an allowlist-then-
// blacklist policy: mediatype allowlist, NSFW blacklist, games/software
// blacklist, license gate, in that order.
//
// Blacklist matching uses word-boundary semantics: "sex" matches "Sex
// Pistols" but never "Sussex". The NSFW list is checked before the games
// list so a candidate matching both reports the more severe category.
package filter
