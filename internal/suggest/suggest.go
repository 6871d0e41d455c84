package suggest

import (
	"fmt"
	"sort"
)

// Threshold is the similarity a candidate needs to be suggested.
const Threshold = 0.5

// Candidate is a known name scored against the misspelled one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is ordered by descending score.
type CandidateList []Candidate

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface. Ties are broken by name.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Best returns the best candidate, or nil if there is none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Rank scores every known name against word.
func Rank(word string, known []string) CandidateList {
	norm := Normalize(word)

	list := make(CandidateList, 0, len(known))
	for _, name := range known {
		if name == word {
			continue
		}

		list = append(list, Candidate{Name: name, Score: Similarity(norm, Normalize(name))})
	}

	sort.Sort(list)

	return list
}

// Closest returns the known name most similar to word, if any scores at
// least Threshold.
func Closest(word string, known []string) (string, bool) {
	best := Rank(word, known).AboveThreshold(Threshold).Best()
	if best == nil {
		return "", false
	}

	return best.Name, true
}

// DidYouMean returns a hint naming the closest known name, or "".
func DidYouMean(word string, known []string) string {
	name, ok := Closest(word, known)
	if !ok {
		return ""
	}

	return fmt.Sprintf("did you mean %q?", name)
}
