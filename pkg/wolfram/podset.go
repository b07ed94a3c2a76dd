package wolfram

import (
	"cmp"
	"slices"
)

// PodSet holds pods keyed by position, kept sorted by ascending position.
// A position is stored at most once; the first pod added for it wins.
// The zero value is ready to use.
type PodSet struct {
	pods []Pod
}

func (s *PodSet) search(position int) (int, bool) {
	return slices.BinarySearchFunc(s.pods, position, func(p Pod, target int) int {
		return cmp.Compare(p.Position, target)
	})
}

// Has reports whether a pod is stored at position.
func (s *PodSet) Has(position int) bool {
	_, found := s.search(position)
	return found
}

// Add inserts pod in position order. It returns false, leaving the set
// unchanged, if a pod with the same position is already present.
func (s *PodSet) Add(pod Pod) bool {
	i, found := s.search(pod.Position)
	if found {
		return false
	}
	s.pods = slices.Insert(s.pods, i, pod)
	return true
}

// Len returns the number of stored pods.
func (s *PodSet) Len() int {
	return len(s.pods)
}

// Pods returns a copy of the stored pods in ascending position order.
func (s *PodSet) Pods() []Pod {
	return slices.Clone(s.pods)
}
