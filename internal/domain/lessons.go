package domain

import (
	"encoding/json"
	"sort"
)

// LessonSet holds completed lesson ids. It marshals as a sorted JSON array.
type LessonSet map[int]struct{}

// NewLessonSet builds a set from ids; duplicates collapse.
func NewLessonSet(ids ...int) LessonSet {
	s := make(LessonSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether it was new.
func (s LessonSet) Add(id int) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s LessonSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

func (s LessonSet) Len() int { return len(s) }

// IDs returns the members in ascending order.
func (s LessonSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s LessonSet) Clone() LessonSet {
	out := make(LessonSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

func (s LessonSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *LessonSet) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewLessonSet(ids...)
	return nil
}
