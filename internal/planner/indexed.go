package planner

import (
	"sort"

	"github.com/rdleal/intervalst/interval"

	"github.com/danieljhkim/festie/internal/lineup"
)

// span is a well-formed [start, end) slot used as the interval tree value.
type span struct {
	start, end int
}

// Indexed finds candidate pairs with an interval search tree instead of
// comparing every pair. The report is identical to Pairwise.
type Indexed struct{}

// Detect implements Detector.
func (Indexed) Detect(perfs []lineup.Performance) Report {
	return DetectIndexed(perfs)
}

// DetectIndexed returns the same report as Detect.
//
// Performances sharing a slot are grouped so each distinct slot is inserted
// once. Scheduled performances whose end does not follow their start cannot
// be stored in the tree and are compared against every entry directly.
// Candidates are confirmed with Overlaps and sorted into (i, j) order.
func DetectIndexed(perfs []lineup.Performance) Report {
	tree := interval.NewSearchTree[span](func(x, y int) int { return x - y })
	groups := make(map[span][]int)
	var order []span
	var irregular []int

	for i, p := range perfs {
		if !p.Scheduled() {
			continue
		}
		if p.TimeStart >= p.TimeEnd {
			irregular = append(irregular, i)
			continue
		}
		s := span{start: p.TimeStart, end: p.TimeEnd}
		if _, seen := groups[s]; !seen {
			if err := tree.Insert(s.start, s.end, s); err != nil {
				irregular = append(irregular, i)
				continue
			}
			order = append(order, s)
		}
		groups[s] = append(groups[s], i)
	}

	found := make(map[[2]int]bool)
	add := func(i, j int) {
		if i == j {
			return
		}
		if i > j {
			i, j = j, i
		}
		if Overlaps(perfs[i], perfs[j]) {
			found[[2]int{i, j}] = true
		}
	}

	for _, s := range order {
		hits, ok := tree.AllIntersections(s.start, s.end)
		if !ok {
			continue
		}
		for _, h := range hits {
			for _, i := range groups[s] {
				for _, j := range groups[h] {
					add(i, j)
				}
			}
		}
	}
	for _, i := range irregular {
		for j := range perfs {
			add(i, j)
		}
	}

	pairs := make([][2]int, 0, len(found))
	for p := range found {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})

	conflicts := make([]Conflict, 0, len(pairs))
	for _, p := range pairs {
		conflicts = append(conflicts, Conflict{A: perfs[p[0]], B: perfs[p[1]]})
	}
	if len(conflicts) == 0 {
		conflicts = nil
	}
	return newReport(conflicts)
}
