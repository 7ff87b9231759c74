package index

import (
	"sort"
	"strconv"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

// TieBreak is the deterministic secondary ordering for candidates that share a
// score. It is fixed once per run from the topic identifier type so that
// repeated runs over an unchanged index are byte-identical.
type TieBreak int

const (
	// TieBreakLexicographic orders equal-score candidates by ascending docid.
	// This is the rule for string-id collections.
	TieBreakLexicographic TieBreak = iota

	// TieBreakRecency orders equal-score candidates by descending numeric
	// docid, newest document first. This is the rule for integer-id
	// collections such as microblog corpora.
	TieBreakRecency
)

// TieBreakFor selects the policy for a run from the topic identifier type.
func TieBreakFor(numericIDs bool) TieBreak {
	if numericIDs {
		return TieBreakRecency
	}
	return TieBreakLexicographic
}

// SortCandidates orders docs by descending score, breaking ties with tb.
// The sort is applied on the caller side so every backend satisfies the
// ordering contract uniformly.
func SortCandidates(docs []domain.ScoredDoc, tb TieBreak) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		if tb == TieBreakRecency {
			return recencyLess(docs[i].DocID, docs[j].DocID)
		}
		return docs[i].DocID < docs[j].DocID
	})
}

// recencyLess ranks the numerically larger docid first. Non-numeric docids in
// a recency collection fall back to reverse lexicographic order.
func recencyLess(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na > nb
	}
	return a > b
}
