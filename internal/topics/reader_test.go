package topics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/vecrun/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTSVReader(t *testing.T) {
	path := writeFile(t, "topics.tsv", "q2\tsecond query\nq1\tfirst query\n\n")

	set, err := (&TSVReader{}).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 topics, got %d", set.Len())
	}

	topic, ok := set.Get(domain.StringID("q1"))
	if !ok {
		t.Fatal("topic q1 missing")
	}
	if topic[FieldTitle] != "first query" {
		t.Errorf("title = %q", topic[FieldTitle])
	}
	if set.Numeric() {
		t.Error("tsv reader should produce string ids")
	}
}

func TestTSVReader_NumericIDs(t *testing.T) {
	path := writeFile(t, "topics.tsv", "100\ta\n2\tb\n")

	set, err := (&TSVReader{NumericIDs: true}).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !set.Numeric() {
		t.Fatal("expected numeric ids")
	}

	ids := set.IDs()
	if ids[0].String() != "2" || ids[1].String() != "100" {
		t.Errorf("numeric order wrong: %v, %v", ids[0], ids[1])
	}
}

func TestTSVReader_BadNumericID(t *testing.T) {
	path := writeFile(t, "topics.tsv", "abc\tquery\n")

	if _, err := (&TSVReader{NumericIDs: true}).Read(path); err == nil {
		t.Fatal("expected error for non-numeric qid")
	}
}

func TestTSVReader_MissingTab(t *testing.T) {
	path := writeFile(t, "topics.tsv", "just one column\n")

	if _, err := (&TSVReader{}).Read(path); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestTRECReader(t *testing.T) {
	content := `<top>
<num> Number: 301
<title> International Organized Crime

<desc> Description:
Identify organizations that participate in
international criminal activity.

<narr> Narrative:
A relevant document must name an organization.
</top>
<top>
<num> Number: 302
<title> Poliomyelitis and Post-Polio
</top>
`
	path := writeFile(t, "topics.trec", content)

	set, err := (&TRECReader{}).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 topics, got %d", set.Len())
	}

	topic, ok := set.Get(domain.StringID("301"))
	if !ok {
		t.Fatal("topic 301 missing")
	}
	if topic[FieldTitle] != "International Organized Crime" {
		t.Errorf("title = %q", topic[FieldTitle])
	}
	if topic[FieldDescription] != "Description: Identify organizations that participate in international criminal activity." {
		t.Errorf("description = %q", topic[FieldDescription])
	}
	if topic[FieldNarrative] != "Narrative: A relevant document must name an organization." {
		t.Errorf("narrative = %q", topic[FieldNarrative])
	}

	second, ok := set.Get(domain.StringID("302"))
	if !ok {
		t.Fatal("topic 302 missing")
	}
	if second[FieldTitle] != "Poliomyelitis and Post-Polio" {
		t.Errorf("title = %q", second[FieldTitle])
	}
}

func TestJSONLVectorReader(t *testing.T) {
	content := `{"id": 2, "vector": [0.1, 0.2, 0.3]}
{"id": 1, "vector": [1.0, 2.0]}
`
	path := writeFile(t, "topics.jsonl", content)

	set, err := (&JSONLVectorReader{}).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 topics, got %d", set.Len())
	}
	if !set.Numeric() {
		t.Error("numeric json ids should produce integer topic ids")
	}

	topic, ok := set.Get(domain.IntID(2))
	if !ok {
		t.Fatal("topic 2 missing")
	}
	if topic[FieldVector] != "[0.1, 0.2, 0.3]" {
		t.Errorf("vector = %q", topic[FieldVector])
	}
}

func TestJSONLVectorReader_StringIDs(t *testing.T) {
	path := writeFile(t, "topics.jsonl", `{"id": "PLAIN-7", "vector": [1]}`+"\n")

	set, err := (&JSONLVectorReader{}).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if set.Numeric() {
		t.Error("string json ids should produce string topic ids")
	}
	if _, ok := set.Get(domain.StringID("PLAIN-7")); !ok {
		t.Error("topic PLAIN-7 missing")
	}
}

func TestJSONLVectorReader_MissingVector(t *testing.T) {
	path := writeFile(t, "topics.jsonl", `{"id": 1}`+"\n")

	if _, err := (&JSONLVectorReader{}).Read(path); err == nil {
		t.Fatal("expected error for missing vector")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := Builtin()
	for _, name := range []string{"tsv", "tsv-int", "trec", "jsonl-vector"} {
		if _, err := reg.Lookup(name); err != nil {
			t.Errorf("builtin variant %q missing: %v", name, err)
		}
	}

	_, err := reg.Lookup("nope")
	if !errors.Is(err, domain.ErrUnknownTopicReader) {
		t.Errorf("expected ErrUnknownTopicReader, got %v", err)
	}
}
