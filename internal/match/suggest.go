package match

import (
	"sort"
)

// DefaultMinScore is the similarity below which no suggestion is made.
const DefaultMinScore = 0.6

// Candidate is a declared code with its similarity to the wanted one.
type Candidate struct {
	Code  string
	Score float64
}

// CandidateList is sorted by descending score, then by declaration order.
type CandidateList []Candidate

// Rank scores every candidate against code. Duplicated candidates are kept
// once.
func Rank(code string, candidates []string) CandidateList {
	seen := make(map[string]struct{}, len(candidates))
	out := make(CandidateList, 0, len(candidates))

	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}

		seen[c] = struct{}{}
		out = append(out, Candidate{Code: c, Score: CodeSimilarity(code, c)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// Best returns the top candidate, or nil.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous reports whether the two best candidates score the same.
func (c CandidateList) IsAmbiguous() bool {
	return len(c) >= 2 && c[0].Score == c[1].Score
}

// Suggest returns the candidate closest to code when it scores at least
// minScore and no other candidate ties with it.
func Suggest(code string, candidates []string, minScore float64) (string, bool) {
	ranked := Rank(code, candidates)

	best := ranked.Best()
	if best == nil || best.Score < minScore || ranked.IsAmbiguous() {
		return "", false
	}

	return best.Code, true
}
