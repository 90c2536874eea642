package domain

import (
	"fmt"
	"sort"
)

// BinRange is an inclusive range of depth-bin positions.
type BinRange struct {
	First int `yaml:"first" validate:"gte=0"`
	Last  int `yaml:"last" validate:"gtefield=First"`
}

func (r BinRange) String() string { return fmt.Sprintf("%d-%d", r.First, r.Last) }

// BinSet is a sorted set of distinct depth-bin positions.
type BinSet struct {
	positions []int
}

// NewBinSet merges ranges into a set. Overlapping ranges contribute each
// position once.
func NewBinSet(ranges ...BinRange) (BinSet, error) {
	seen := make(map[int]struct{})
	for _, r := range ranges {
		if r.First < 0 || r.Last < r.First {
			return BinSet{}, fmt.Errorf("invalid bin range %s", r)
		}
		for i := r.First; i <= r.Last; i++ {
			seen[i] = struct{}{}
		}
	}
	positions := make([]int, 0, len(seen))
	for i := range seen {
		positions = append(positions, i)
	}
	sort.Ints(positions)
	return BinSet{positions: positions}, nil
}

// Len returns the number of positions in the set.
func (s BinSet) Len() int { return len(s.positions) }

// Positions returns a copy of the positions in ascending order.
func (s BinSet) Positions() []int {
	out := make([]int, len(s.positions))
	copy(out, s.positions)
	return out
}

// Contains reports whether position i is in the set.
func (s BinSet) Contains(i int) bool {
	j := sort.SearchInts(s.positions, i)
	return j < len(s.positions) && s.positions[j] == i
}

// MinLength is the shortest axis the whole set can be removed from.
func (s BinSet) MinLength() int {
	if len(s.positions) == 0 {
		return 0
	}
	return s.positions[len(s.positions)-1] + 1
}

// Keep returns the positions in [0, n) that are not in the set.
func (s BinSet) Keep(n int) []int {
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !s.Contains(i) {
			keep = append(keep, i)
		}
	}
	return keep
}
