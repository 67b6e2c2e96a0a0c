package dedup

// LinkSet keeps links unique in discovery order. It lives for a single run
// and is never persisted.
type LinkSet struct {
	order []string
	seen  map[string]struct{}
}

func NewLinkSet() *LinkSet {
	return &LinkSet{seen: make(map[string]struct{})}
}

// Add inserts a link and reports whether it was new. Empty links are ignored.
func (s *LinkSet) Add(link string) bool {
	if link == "" {
		return false
	}
	if _, exists := s.seen[link]; exists {
		return false
	}
	s.seen[link] = struct{}{}
	s.order = append(s.order, link)
	return true
}

func (s *LinkSet) Contains(link string) bool {
	_, exists := s.seen[link]
	return exists
}

func (s *LinkSet) Len() int {
	return len(s.order)
}

// Items returns a copy of the links in insertion order
func (s *LinkSet) Items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
