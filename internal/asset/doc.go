// Package asset defines the candidate model shared by search, filtering,
// and scene assignment.
//
// A Candidate is a raw search result from an archival media provider. It is
// immutable after creation: filters attach verdicts elsewhere, they never
// rewrite the candidate itself.
package asset
