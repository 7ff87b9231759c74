package domain

// ScoredDoc is one candidate document returned by an index search: the document
// identifier and its similarity score. Higher scores rank first; equal scores
// are possible and are broken by the run's tie-break policy.
type ScoredDoc struct {
	DocID string
	Score float64
}
