package topics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

// FieldVector is where the JSONL reader stores the pre-encoded query vector,
// as its raw JSON array text. The "vector" query builder parses it back.
const FieldVector = "vector"

// JSONLVectorReader reads topics carrying pre-encoded query vectors: one JSON
// object per line with an "id" and a "vector" array. Numeric ids become
// integer topic ids; string ids stay strings.
type JSONLVectorReader struct{}

type jsonlTopic struct {
	ID     json.RawMessage `json:"id"`
	Vector json.RawMessage `json:"vector"`
}

// Read parses the file at path.
func (r *JSONLVectorReader) Read(path string) (*domain.TopicSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topics file: %w", err)
	}
	defer f.Close()

	set := domain.NewTopicSet()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var t jsonlTopic
		if err := json.Unmarshal([]byte(text), &t); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if len(t.ID) == 0 || len(t.Vector) == 0 {
			return nil, fmt.Errorf("%s:%d: missing id or vector", path, line)
		}
		id, err := parseID(t.ID)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		set.Put(id, domain.Topic{FieldVector: string(t.Vector)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read topics file %s: %w", path, err)
	}
	return set, nil
}

// parseID maps a JSON number to an integer id and a JSON string to a string id.
func parseID(raw json.RawMessage) (domain.TopicID, error) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return domain.IntID(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.TopicID{}, fmt.Errorf("topic id %s: %w", raw, err)
	}
	return domain.StringID(s), nil
}
