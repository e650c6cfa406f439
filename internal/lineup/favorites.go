package lineup

// FavoriteSet is an insertion-ordered set of performance ids.
type FavoriteSet struct {
	ids []int64
}

// NewFavoriteSet builds a set from ids, dropping duplicates and keeping the
// first occurrence of each.
func NewFavoriteSet(ids []int64) *FavoriteSet {
	s := &FavoriteSet{ids: make([]int64, 0, len(ids))}
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Contains reports whether id is a member.
func (s *FavoriteSet) Contains(id int64) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id if present, otherwise appends it. It returns true when id
// is a member afterwards.
func (s *FavoriteSet) Toggle(id int64) bool {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

// IDs returns a copy of the members in insertion order.
func (s *FavoriteSet) IDs() []int64 {
	return append([]int64{}, s.ids...)
}

// Len returns the number of members.
func (s *FavoriteSet) Len() int {
	return len(s.ids)
}
