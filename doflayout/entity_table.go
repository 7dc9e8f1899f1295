package doflayout

import (
	"fmt"
	"slices"

	"github.com/notargets/doflayout/cell"
)

// entitySlots checks that raw matches the topology shape and partitions the
// contiguous range 0..n-1, returning sorted copies of every entity set and n.
func entitySlots(topo cell.Topology, raw [][][]int) ([][][]int, int, error) {
	tdim := topo.Dim()
	if len(raw) != tdim+1 {
		return nil, 0, fmt.Errorf("%w: %v needs entity dofs for %d dimensions, got %d",
			ErrConfig, topo.Type(), tdim+1, len(raw))
	}

	var total int
	for d := range raw {
		if n := topo.NumEntities(d); len(raw[d]) != n {
			return nil, 0, fmt.Errorf("%w: %v has %d entities of dimension %d, entity dofs list %d",
				ErrConfig, topo.Type(), n, d, len(raw[d]))
		}
		for _, dofs := range raw[d] {
			total += len(dofs)
		}
	}
	if total == 0 {
		return nil, 0, fmt.Errorf("%w: element has no dofs", ErrConfig)
	}

	owner := make([]cell.Entity, total)
	seen := make([]bool, total)
	slots := make([][][]int, len(raw))
	for d := range raw {
		slots[d] = make([][]int, len(raw[d]))
		for e, dofs := range raw[d] {
			for _, s := range dofs {
				if s < 0 || s >= total {
					return nil, 0, fmt.Errorf("%w: dof %d on entity (%d, %d) outside contiguous range [0, %d)",
						ErrConfig, s, d, e, total)
				}
				if seen[s] {
					return nil, 0, fmt.Errorf("%w: dof %d on entity (%d, %d) already attached to entity (%d, %d)",
						ErrConfig, s, d, e, owner[s].Dim, owner[s].Index)
				}
				seen[s] = true
				owner[s] = cell.Entity{Dim: d, Index: e}
			}
			sorted := append([]int{}, dofs...)
			slices.Sort(sorted)
			slots[d][e] = sorted
		}
	}
	// total distinct in-range values over total entries leaves no gap
	return slots, total, nil
}

// uniformCounts returns the per-dimension set size, rejecting dimensions whose
// entities disagree
func uniformCounts(table [][][]int, what string) ([]int, error) {
	counts := make([]int, len(table))
	for d := range table {
		for e, dofs := range table[d] {
			if e == 0 {
				counts[d] = len(dofs)
				continue
			}
			if len(dofs) != counts[d] {
				return nil, fmt.Errorf("%w: %s dof count differs across dimension %d: entity 0 has %d, entity %d has %d",
					ErrConfig, what, d, counts[d], e, len(dofs))
			}
		}
	}
	return counts, nil
}

// entityClosures unions each entity's own set with the sets of every entity
// reachable below it in the cell's incidence graph
func entityClosures(topo cell.Topology, direct [][][]int) [][][]int {
	inc := cell.NewIncidence(topo)
	closures := make([][][]int, len(direct))
	for d := range direct {
		closures[d] = make([][]int, len(direct[d]))
		for e := range direct[d] {
			c := append([]int{}, direct[d][e]...)
			for _, sub := range inc.Closure(d, e) {
				c = append(c, direct[sub.Dim][sub.Index]...)
			}
			slices.Sort(c)
			closures[d][e] = slices.Compact(c)
		}
	}
	return closures
}

// expand maps every slot s to the dofs s*bs..s*bs+bs-1
func expand(table [][][]int, bs int) [][][]int {
	out := make([][][]int, len(table))
	for d := range table {
		out[d] = make([][]int, len(table[d]))
		for e, slots := range table[d] {
			dofs := make([]int, 0, len(slots)*bs)
			for _, s := range slots {
				for k := 0; k < bs; k++ {
					dofs = append(dofs, s*bs+k)
				}
			}
			out[d][e] = dofs
		}
	}
	return out
}
