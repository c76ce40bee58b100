package access

// MasterSet holds the nicknames allowed to control the bot. It is built once
// and never modified, so concurrent readers need no locking.
type MasterSet struct {
	names []string
	index map[string]struct{}
}

// NewMasterSet keeps the first occurrence of each nickname.
func NewMasterSet(names []string) MasterSet {
	s := MasterSet{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		if _, dup := s.index[n]; dup {
			continue
		}
		s.index[n] = struct{}{}
		s.names = append(s.names, n)
	}
	return s
}

// Contains is case sensitive.
func (s MasterSet) Contains(nick string) bool {
	_, ok := s.index[nick]
	return ok
}

func (s MasterSet) Len() int {
	return len(s.names)
}

func (s MasterSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
