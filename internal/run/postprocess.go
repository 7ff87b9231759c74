// Package run contains the batch execution core: per-query result
// post-processing, the bounded query scheduler, the run-file writer, and the
// orchestrator that drives one or more run-file configurations.
package run

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

// Format selects the run-file dialect.
type Format string

const (
	// FormatStandard is the six-column TREC run format.
	FormatStandard Format = "standard"
	// FormatMSMARCO is the three-column tab-separated MS MARCO format.
	FormatMSMARCO Format = "msmarco"
)

// Options controls post-processing of one query's candidates.
type Options struct {
	Format Format
	RunTag string

	// RemoveDuplicates drops candidates whose docid was already emitted.
	// Off by default: duplicate documents usually indicate an indexing
	// problem, and hiding them silently would eat that signal.
	RemoveDuplicates bool

	// RemoveQuery drops candidates whose docid equals the topic's own id.
	RemoveQuery bool

	// MaxPassage treats docids as <docid><delimiter><passage> and collapses
	// passages of the same parent document into one ranked hit. Collapsing
	// implies deduplication regardless of RemoveDuplicates.
	MaxPassage          bool
	MaxPassageDelimiter string
	MaxPassageHits      int
}

// Process turns the ordered candidates for one topic into the final run-file
// block: deduplicated where requested, self-hits removed where requested, and
// ranked densely from 1 over the emitted lines only. Candidates must already
// be sorted by descending score with the run's tie-break applied.
func Process(qid domain.TopicID, docs []domain.ScoredDoc, opts Options) string {
	var out strings.Builder
	emitted := make(map[string]struct{})

	rank := 1
	for _, d := range docs {
		docid := d.DocID
		if opts.MaxPassage {
			docid, _, _ = strings.Cut(docid, opts.MaxPassageDelimiter)
		}

		if _, ok := emitted[docid]; ok {
			continue
		}
		if opts.RemoveQuery && docid == qid.String() {
			continue
		}

		if opts.Format == FormatMSMARCO {
			fmt.Fprintf(&out, "%s\t%s\t%d\n", qid, docid, rank)
		} else {
			// Standard TREC format: qid, the literal "Q0", docid, rank,
			// score, run tag.
			fmt.Fprintf(&out, "%s Q0 %s %d %f %s\n", qid, docid, rank, d.Score, opts.RunTag)
		}

		if opts.RemoveDuplicates || opts.MaxPassage {
			emitted[docid] = struct{}{}
		}

		rank++

		if opts.MaxPassage && rank > opts.MaxPassageHits {
			break
		}
	}

	return out.String()
}
