package topics

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

// Field names produced by the TREC reader.
const (
	FieldDescription = "description"
	FieldNarrative   = "narrative"
)

// TRECReader reads classic TREC topic files: <top> blocks with <num>, <title>,
// <desc> and <narr> sections. Tags are not required to be closed; a section
// runs until the next tag or the end of the block. Qids are strings.
type TRECReader struct{}

// Read parses the file at path.
func (r *TRECReader) Read(path string) (*domain.TopicSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topics file: %w", err)
	}
	defer f.Close()

	set := domain.NewTopicSet()

	var (
		qid     string
		topic   domain.Topic
		field   string
		content strings.Builder
	)

	flush := func() {
		if field != "" && topic != nil {
			topic[field] = strings.TrimSpace(content.String())
		}
		field = ""
		content.Reset()
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "<top>"):
			qid = ""
			topic = domain.Topic{}
		case strings.HasPrefix(line, "</top>"):
			flush()
			if qid != "" {
				set.Put(domain.StringID(qid), topic)
			}
			topic = nil
		case strings.HasPrefix(line, "<num>"):
			flush()
			qid = strings.TrimSpace(strings.TrimPrefix(trimTag(line, "<num>"), "Number:"))
		case strings.HasPrefix(line, "<title>"):
			flush()
			field = FieldTitle
			content.WriteString(trimTag(line, "<title>"))
		case strings.HasPrefix(line, "<desc>"):
			flush()
			field = FieldDescription
			content.WriteString(trimTag(line, "<desc>"))
		case strings.HasPrefix(line, "<narr>"):
			flush()
			field = FieldNarrative
			content.WriteString(trimTag(line, "<narr>"))
		default:
			if field != "" && line != "" {
				if content.Len() > 0 {
					content.WriteString(" ")
				}
				content.WriteString(line)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read topics file %s: %w", path, err)
	}
	return set, nil
}

func trimTag(line, tag string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, tag))
}
