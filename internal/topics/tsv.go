package topics

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

// FieldTitle is where plain-text readers store the topic text, matching the
// classic TREC field name.
const FieldTitle = "title"

// TSVReader reads tab-separated topics, one "qid<TAB>query" pair per line.
// This is the MS MARCO topic layout. NumericIDs switches qids to the integer
// variant so the set and the run file sort numerically.
type TSVReader struct {
	NumericIDs bool
}

// Read parses the file at path.
func (r *TSVReader) Read(path string) (*domain.TopicSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topics file: %w", err)
	}
	defer f.Close()

	set := domain.NewTopicSet()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r\n")
		if text == "" {
			continue
		}
		qid, query, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected qid<TAB>query", path, line)
		}
		id, err := r.topicID(qid)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		set.Put(id, domain.Topic{FieldTitle: query})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read topics file %s: %w", path, err)
	}
	return set, nil
}

func (r *TSVReader) topicID(qid string) (domain.TopicID, error) {
	if !r.NumericIDs {
		return domain.StringID(qid), nil
	}
	n, err := strconv.ParseInt(qid, 10, 64)
	if err != nil {
		return domain.TopicID{}, fmt.Errorf("numeric qid %q: %w", qid, err)
	}
	return domain.IntID(n), nil
}
