// Package domain holds the core types shared across the run pipeline:
// topic identifiers, topic sets, and scored documents.
package domain

import (
	"sort"
	"strconv"
)

// TopicID identifies a single topic. Most collections use string identifiers;
// recency collections (e.g. tweets) use 64-bit integers, which sort numerically.
// The id is a closed two-variant value rather than a bare string so that topic
// sets and run files order correctly for both kinds.
type TopicID struct {
	str     string
	num     int64
	numeric bool
}

// StringID creates a string topic identifier.
func StringID(s string) TopicID {
	return TopicID{str: s}
}

// IntID creates an integer topic identifier.
func IntID(n int64) TopicID {
	return TopicID{num: n, numeric: true}
}

// Numeric reports whether the identifier is the integer variant.
func (id TopicID) Numeric() bool { return id.numeric }

// String returns the identifier as it appears in topic files and run files.
func (id TopicID) String() string {
	if id.numeric {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

// Less orders identifiers by their natural order: numeric ascending for the
// integer variant, lexicographic ascending for strings. Mixed comparisons put
// integer ids first; a well-formed topic set never mixes variants.
func (id TopicID) Less(other TopicID) bool {
	if id.numeric != other.numeric {
		return id.numeric
	}
	if id.numeric {
		return id.num < other.num
	}
	return id.str < other.str
}

// Topic maps field names (e.g. "title", "vector") to their text.
type Topic map[string]string

// TopicSet is a set of topics keyed by TopicID. It is built once before a run
// starts and is read-only afterwards.
type TopicSet struct {
	topics map[TopicID]Topic
}

// NewTopicSet creates an empty topic set.
func NewTopicSet() *TopicSet {
	return &TopicSet{topics: make(map[TopicID]Topic)}
}

// Put adds a topic, overwriting any existing topic with the same id.
func (s *TopicSet) Put(id TopicID, t Topic) {
	s.topics[id] = t
}

// Merge folds other into s. Later entries overwrite same-key entries; merging
// several topic files this way is an explicit overwrite, not an error.
func (s *TopicSet) Merge(other *TopicSet) {
	for id, t := range other.topics {
		s.topics[id] = t
	}
}

// Get returns the topic for id.
func (s *TopicSet) Get(id TopicID) (Topic, bool) {
	t, ok := s.topics[id]
	return t, ok
}

// Len returns the number of topics.
func (s *TopicSet) Len() int { return len(s.topics) }

// IDs returns all topic ids in ascending natural order.
func (s *TopicSet) IDs() []TopicID {
	ids := make([]TopicID, 0, len(s.topics))
	for id := range s.topics {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Numeric reports whether the set uses integer identifiers. An empty set is
// treated as string-keyed.
func (s *TopicSet) Numeric() bool {
	for id := range s.topics {
		return id.numeric
	}
	return false
}
