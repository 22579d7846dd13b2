package document

// Set holds documents deduplicated by natural key.
// Iteration follows insertion order so reports stay stable between runs.
type Set struct {
	keys []Key
	docs map[Key]*Document
}

func NewSet(docs ...*Document) *Set {
	s := &Set{docs: make(map[Key]*Document, len(docs))}
	for _, d := range docs {
		s.Add(d)
	}

	return s
}

// Add inserts d unless a document with the same key is already present.
// It reports whether d was added.
func (s *Set) Add(d *Document) bool {
	if d == nil {
		return false
	}

	if s.docs == nil {
		s.docs = make(map[Key]*Document)
	}

	k := d.Key()
	if _, ok := s.docs[k]; ok {
		return false
	}

	s.keys = append(s.keys, k)
	s.docs[k] = d

	return true
}

func (s *Set) Contains(d *Document) bool {
	if s == nil || d == nil {
		return false
	}

	_, ok := s.docs[d.Key()]

	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.keys)
}

// Docs returns the members in insertion order.
func (s *Set) Docs() []*Document {
	if s == nil {
		return nil
	}

	out := make([]*Document, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.docs[k])
	}

	return out
}

func (s *Set) Total() int64 {
	if s == nil {
		return 0
	}

	var total int64
	for _, d := range s.docs {
		total += d.Amount
	}

	return total
}
