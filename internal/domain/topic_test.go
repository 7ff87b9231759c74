package domain

import "testing"

func TestTopicIDOrdering_Strings(t *testing.T) {
	set := NewTopicSet()
	for _, q := range []string{"q2", "q10", "q1"} {
		set.Put(StringID(q), Topic{"title": q})
	}

	ids := set.IDs()
	want := []string{"q1", "q10", "q2"} // lexicographic, not numeric
	for i, id := range ids {
		if id.String() != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, id, want[i])
		}
	}
	if set.Numeric() {
		t.Error("string-keyed set reported numeric")
	}
}

func TestTopicIDOrdering_Integers(t *testing.T) {
	set := NewTopicSet()
	for _, n := range []int64{100, 2, 30} {
		set.Put(IntID(n), Topic{"title": "x"})
	}

	ids := set.IDs()
	want := []string{"2", "30", "100"}
	for i, id := range ids {
		if id.String() != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, id, want[i])
		}
	}
	if !set.Numeric() {
		t.Error("integer-keyed set not reported numeric")
	}
}

func TestTopicSetMerge_LaterOverwrites(t *testing.T) {
	a := NewTopicSet()
	a.Put(StringID("1"), Topic{"title": "first"})
	a.Put(StringID("2"), Topic{"title": "keep"})

	b := NewTopicSet()
	b.Put(StringID("1"), Topic{"title": "second"})

	a.Merge(b)

	if a.Len() != 2 {
		t.Fatalf("expected 2 topics, got %d", a.Len())
	}
	topic, ok := a.Get(StringID("1"))
	if !ok {
		t.Fatal("topic 1 missing")
	}
	if topic["title"] != "second" {
		t.Errorf("expected overwrite, got %q", topic["title"])
	}
}
