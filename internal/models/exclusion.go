package models

// ExclusionSet is the desired state for PhpStorm excludeFolder entries: two
// disjoint, insertion-ordered sets of normalized paths. A path is never in
// both; when configuration puts it in both, it is kept in Include, dropped
// from Exclude and recorded as a conflict.
type ExclusionSet struct {
	include   []string
	exclude   []string
	inInclude map[string]struct{}
	inExclude map[string]struct{}
	conflicts []string
	seen      map[string]struct{}
}

// NewExclusionSet creates an empty ExclusionSet
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{
		inInclude: make(map[string]struct{}),
		inExclude: make(map[string]struct{}),
		seen:      make(map[string]struct{}),
	}
}

// Include adds p to the include set. When p was already excluded it is
// removed from Exclude and Include reports the conflict.
func (s *ExclusionSet) Include(p string) (conflict bool) {
	if _, ok := s.inExclude[p]; ok {
		s.dropExclude(p)
		conflict = s.recordConflict(p)
	}
	if _, ok := s.inInclude[p]; ok {
		return conflict
	}
	s.inInclude[p] = struct{}{}
	s.include = append(s.include, p)
	return conflict
}

// Exclude adds p to the exclude set unless it is included. It returns false
// when p was rejected because it is included.
func (s *ExclusionSet) Exclude(p string) bool {
	if _, ok := s.inInclude[p]; ok {
		return false
	}
	if _, ok := s.inExclude[p]; ok {
		return true
	}
	s.inExclude[p] = struct{}{}
	s.exclude = append(s.exclude, p)
	return true
}

// ExcludeOrConflict adds p to the exclude set; when p is included the
// conflict is recorded instead. It returns true only for a newly recorded conflict.
func (s *ExclusionSet) ExcludeOrConflict(p string) bool {
	if s.Exclude(p) {
		return false
	}
	return s.recordConflict(p)
}

// IsIncluded reports whether p is in the include set.
func (s *ExclusionSet) IsIncluded(p string) bool {
	_, ok := s.inInclude[p]
	return ok
}

// IsExcluded reports whether p is in the exclude set.
func (s *ExclusionSet) IsExcluded(p string) bool {
	_, ok := s.inExclude[p]
	return ok
}

// Includes returns the include set in insertion order.
func (s *ExclusionSet) Includes() []string {
	return append([]string(nil), s.include...)
}

// Excludes returns the exclude set in insertion order.
func (s *ExclusionSet) Excludes() []string {
	return append([]string(nil), s.exclude...)
}

// Conflicts returns every path that configuration placed in both sets.
func (s *ExclusionSet) Conflicts() []string {
	return append([]string(nil), s.conflicts...)
}

func (s *ExclusionSet) dropExclude(p string) {
	delete(s.inExclude, p)
	for i, e := range s.exclude {
		if e == p {
			s.exclude = append(s.exclude[:i], s.exclude[i+1:]...)
			return
		}
	}
}

func (s *ExclusionSet) recordConflict(p string) bool {
	if _, ok := s.seen[p]; ok {
		return false
	}
	s.seen[p] = struct{}{}
	s.conflicts = append(s.conflicts, p)
	return true
}
