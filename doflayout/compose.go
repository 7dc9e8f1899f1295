package doflayout

import (
	"fmt"
	"slices"

	"github.com/notargets/doflayout/cell"
)

// NewMixed composes a mixed element layout by concatenating the dof ranges of
// subs. Sub-layout i becomes child i with parent map offset_i + j, the entity
// tables are the union of the shifted child tables, and each generator is the
// block-diagonal combination of the child generators. All subs must agree on
// the cell's entity counts and sub-entity adjacency.
func NewMixed(subs []*Layout, opts ...Option) (*Layout, error) {
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: mixed layout needs at least one sub-layout", ErrConfig)
	}
	for i, s := range subs {
		if s == nil {
			return nil, fmt.Errorf("%w: sub-layout %d is nil", ErrConfig, i)
		}
	}
	topo := subs[0].topology
	for i, s := range subs[1:] {
		if !sameTopology(topo, s.topology) {
			return nil, fmt.Errorf("%w: sub-layout %d (%v) does not share the topology of sub-layout 0 (%v)",
				ErrConfig, i+1, s.CellType(), topo.Type())
		}
	}

	tdim := topo.Dim()
	entityDofs := make([][][]int, tdim+1)
	for d := range entityDofs {
		entityDofs[d] = make([][]int, topo.NumEntities(d))
	}
	perms := make([][]int, numPermutationRows(topo))
	var total int
	for _, s := range subs {
		total += s.numDofs
	}
	for r := range perms {
		perms[r] = make([]int, total)
	}

	children := make([]*Layout, len(subs))
	var offset int
	for i, s := range subs {
		for d := range entityDofs {
			for e := range entityDofs[d] {
				for _, dof := range s.entityDofs[d][e] {
					entityDofs[d][e] = append(entityDofs[d][e], offset+dof)
				}
			}
		}
		for r, row := range s.permutations {
			for j, p := range row {
				perms[r][offset+j] = offset + p
			}
		}
		pm := make([]int, s.numDofs)
		for j := range pm {
			pm[j] = offset + j
		}
		children[i] = s.reparent(pm)
		offset += s.numDofs
	}

	return New(topo, Definition{
		BlockSize:    1,
		EntityDofs:   entityDofs,
		Children:     children,
		Permutations: perms,
	}, opts...)
}

// NewBlocked builds the vector-valued layout with blockSize components per
// slot of the scalar layout, e.g. a vector P2 space from scalar P2.
func NewBlocked(scalar *Layout, blockSize int, opts ...Option) (*Layout, error) {
	if scalar == nil {
		return nil, fmt.Errorf("%w: nil scalar layout", ErrConfig)
	}
	if scalar.blockSize != 1 || len(scalar.children) > 0 {
		return nil, fmt.Errorf("%w: blocked layout needs a scalar layout without sub-layouts, got block size %d with %d sub-layouts",
			ErrConfig, scalar.blockSize, len(scalar.children))
	}
	return New(scalar.topology, Definition{
		BlockSize:    blockSize,
		EntityDofs:   scalar.entityDofs,
		Permutations: scalar.permutations,
	}, opts...)
}

func sameTopology(a, b cell.Topology) bool {
	if a.Type() != b.Type() || a.Dim() != b.Dim() {
		return false
	}
	for d := 0; d <= a.Dim(); d++ {
		if a.NumEntities(d) != b.NumEntities(d) {
			return false
		}
	}
	for d := 1; d <= a.Dim(); d++ {
		for e := 0; e < a.NumEntities(d); e++ {
			for sd := 0; sd < d; sd++ {
				if !slices.Equal(a.SubEntities(d, e, sd), b.SubEntities(d, e, sd)) {
					return false
				}
			}
		}
	}
	return true
}
