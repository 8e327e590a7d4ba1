package pipeline

import (
	"sort"
	"strings"

	"newsreel/internal/asset"
	"newsreel/internal/manifest"
	"newsreel/internal/textutil"
)

// defaultShortlistSize bounds how many fallback candidates a scene keeps
// after ranking. One primary plus two spares absorbs most validation
// failures without hoarding the pool.
const defaultShortlistSize = 3

// Shortlist is one scene's ranked candidate slate, best first.
type Shortlist struct {
	Scene  manifest.Scene
	Ranked []asset.Candidate
}

// Rank scores every candidate against every scene and returns a
// per-scene shortlist. Scoring is token overlap between the scene text
// and the candidate's title, description, and subjects; ties break on
// popularity then identifier so the ordering is deterministic.
// Zero-overlap candidates stay in the ranking: generic footage is still
// better than an uncovered scene.
func Rank(scenes []manifest.Scene, pool []asset.Candidate, shortlistSize int) []Shortlist {
	if shortlistSize <= 0 {
		shortlistSize = defaultShortlistSize
	}
	shortlists := make([]Shortlist, len(scenes))
	for i, scene := range scenes {
		want := textutil.Tokenize(scene.Text)

		type scored struct {
			candidate asset.Candidate
			score     int
		}
		ranked := make([]scored, 0, len(pool))
		for _, candidate := range pool {
			have := textutil.TokenSet(strings.Join(append([]string{candidate.Title, candidate.Description}, candidate.Subject...), " "))
			ranked = append(ranked, scored{candidate: candidate, score: textutil.OverlapScore(want, have)})
		}
		sort.SliceStable(ranked, func(a, b int) bool {
			if ranked[a].score != ranked[b].score {
				return ranked[a].score > ranked[b].score
			}
			if ranked[a].candidate.Downloads != ranked[b].candidate.Downloads {
				return ranked[a].candidate.Downloads > ranked[b].candidate.Downloads
			}
			return ranked[a].candidate.Identifier < ranked[b].candidate.Identifier
		})

		if len(ranked) > shortlistSize {
			ranked = ranked[:shortlistSize]
		}
		shortlist := Shortlist{Scene: scene, Ranked: make([]asset.Candidate, len(ranked))}
		for j, entry := range ranked {
			shortlist.Ranked[j] = entry.candidate
		}
		shortlists[i] = shortlist
	}
	return shortlists
}

// provisionalAssignments walks the shortlists in scene order and claims
// the best still-unclaimed candidate for each scene. A candidate serves
// at most one scene. The returned count is the number of scenes that
// received a candidate.
func provisionalAssignments(shortlists []Shortlist) (map[int]asset.Candidate, int) {
	assigned := make(map[int]asset.Candidate, len(shortlists))
	taken := make(map[string]struct{}, len(shortlists))
	for _, shortlist := range shortlists {
		for _, candidate := range shortlist.Ranked {
			if _, used := taken[candidate.Identifier]; used {
				continue
			}
			taken[candidate.Identifier] = struct{}{}
			assigned[shortlist.Scene.Index] = candidate
			break
		}
	}
	return assigned, len(assigned)
}
