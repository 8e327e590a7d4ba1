package filter

import (
	"regexp"
	"strings"

	"newsreel/internal/asset"
)

// DropReason classifies why a candidate was removed from the pool.
type DropReason string

const (
	DropMediatype      DropReason = "DROP_MEDIATYPE"
	DropLicense        DropReason = "DROP_LICENSE"
	DropBlacklistNSFW  DropReason = "DROP_BLACKLIST_NSFW"
	DropBlacklistGames DropReason = "DROP_BLACKLIST_GAMES"
)

// Verdict records one keep/drop decision. Candidates are never mutated;
// the verdict is the only artifact a filter pass produces.
type Verdict struct {
	Candidate   asset.Candidate
	Keep        bool
	Reason      DropReason
	MatchedTerm string
}

type blacklistPattern struct {
	term string
	re   *regexp.Regexp
}

// Policy is the compiled, immutable filtering policy for a run. It is a
// pure function of its inputs: applying it twice to the same pool yields
// the same partition.
type Policy struct {
	allowedMediaTypes map[asset.MediaType]struct{}
	allowedLicenses   map[asset.License]struct{}
	nsfw              []blacklistPattern
	games             []blacklistPattern
}

// NewPolicy compiles a policy from the configured allowlists and the
// static blacklist term sets.
func NewPolicy(allowedMediaTypes, allowedLicenses []string) *Policy {
	policy := &Policy{
		allowedMediaTypes: make(map[asset.MediaType]struct{}, len(allowedMediaTypes)),
		allowedLicenses:   make(map[asset.License]struct{}, len(allowedLicenses)),
		nsfw:              compileBlacklist(nsfwTerms),
		games:             compileBlacklist(gamesTerms),
	}
	for _, mt := range allowedMediaTypes {
		policy.allowedMediaTypes[asset.NormalizeMediaType(mt)] = struct{}{}
	}
	for _, license := range allowedLicenses {
		policy.allowedLicenses[asset.License(strings.ToLower(strings.TrimSpace(license)))] = struct{}{}
	}
	return policy
}

func compileBlacklist(terms []string) []blacklistPattern {
	patterns := make([]blacklistPattern, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, blacklistPattern{
			term: term,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`),
		})
	}
	return patterns
}

// Apply evaluates every candidate and returns the surviving pool plus the
// complete verdict list (kept and dropped) for telemetry.
func (p *Policy) Apply(candidates []asset.Candidate) ([]asset.Candidate, []Verdict) {
	kept := make([]asset.Candidate, 0, len(candidates))
	verdicts := make([]Verdict, 0, len(candidates))
	for _, candidate := range candidates {
		verdict := p.Evaluate(candidate)
		verdicts = append(verdicts, verdict)
		if verdict.Keep {
			kept = append(kept, candidate)
		}
	}
	return kept, verdicts
}

// Evaluate runs the full check sequence for one candidate.
func (p *Policy) Evaluate(candidate asset.Candidate) Verdict {
	// Mediatype allowlist. An absent mediatype passes through to the text
	// checks: the field is sometimes missing upstream, and dropping on
	// absence would empty the pool for whole collections.
	if candidate.MediaType != "" {
		if _, ok := p.allowedMediaTypes[candidate.MediaType]; !ok {
			return Verdict{Candidate: candidate, Reason: DropMediatype}
		}
	}

	buffer := searchText(candidate)

	// NSFW before games: overlapping matches resolve to the more severe
	// category.
	if term, matched := matchBlacklist(p.nsfw, buffer); matched {
		return Verdict{Candidate: candidate, Reason: DropBlacklistNSFW, MatchedTerm: term}
	}
	if term, matched := matchBlacklist(p.games, buffer); matched {
		return Verdict{Candidate: candidate, Reason: DropBlacklistGames, MatchedTerm: term}
	}

	if _, ok := p.allowedLicenses[candidate.License()]; !ok {
		return Verdict{Candidate: candidate, Reason: DropLicense}
	}

	return Verdict{Candidate: candidate, Keep: true}
}

// searchText assembles the lowercase buffer the blacklists scan: title,
// description, collection, subject, creator, and identifier.
func searchText(candidate asset.Candidate) string {
	parts := make([]string, 0, 6)
	parts = append(parts, candidate.Title, candidate.Description)
	parts = append(parts, candidate.Collection...)
	parts = append(parts, candidate.Subject...)
	parts = append(parts, candidate.Creator...)
	parts = append(parts, candidate.Identifier)
	return strings.ToLower(strings.Join(parts, " "))
}

func matchBlacklist(patterns []blacklistPattern, buffer string) (string, bool) {
	for _, pattern := range patterns {
		if pattern.re.MatchString(buffer) {
			return pattern.term, true
		}
	}
	return "", false
}

// DropBreakdown tallies dropped verdicts by reason.
func DropBreakdown(verdicts []Verdict) map[string]int {
	breakdown := make(map[string]int)
	for _, verdict := range verdicts {
		if verdict.Keep {
			continue
		}
		breakdown[string(verdict.Reason)]++
	}
	return breakdown
}
