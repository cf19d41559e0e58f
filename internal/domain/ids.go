package domain

// Identified is implemented by records that carry a collection-scoped integer id.
type Identified interface {
	GetID() int
}

// NextID returns the smallest id greater than every id in records, or 1 for an empty collection.
// Callers must serialize allocation with the append that follows it.
func NextID[T Identified](records []T) int {
	max := 0
	for _, r := range records {
		if id := r.GetID(); id > max {
			max = id
		}
	}
	return max + 1
}
