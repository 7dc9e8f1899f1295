package doflayout

import (
	"fmt"
	"slices"

	"github.com/notargets/doflayout/cell"
)

// checkParentMap requires one entry per dof, non-negative and distinct. The
// upper bound is checked by the parent when it adopts the child.
func checkParentMap(pm []int, numDofs int) ([]int, error) {
	if len(pm) == 0 {
		return nil, nil
	}
	if len(pm) != numDofs {
		return nil, fmt.Errorf("%w: parent map has %d entries for %d dofs", ErrConfig, len(pm), numDofs)
	}
	seen := make(map[int]int, len(pm))
	for i, p := range pm {
		if p < 0 {
			return nil, fmt.Errorf("%w: parent map entry %d is negative (%d)", ErrConfig, i, p)
		}
		if j, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: parent map sends dofs %d and %d to parent dof %d", ErrConfig, j, i, p)
		}
		seen[p] = i
	}
	return slices.Clone(pm), nil
}

func checkChildren(ct cell.Type, numDofs int, children []*Layout) error {
	for i, c := range children {
		if c == nil {
			return fmt.Errorf("%w: sub-layout %d is nil", ErrConfig, i)
		}
		if c.CellType() != ct {
			return fmt.Errorf("%w: sub-layout %d is defined on %v, parent on %v", ErrConfig, i, c.CellType(), ct)
		}
		if !c.IsView() {
			return fmt.Errorf("%w: sub-layout %d has no parent map", ErrConfig, i)
		}
		for j, p := range c.parentMap {
			if p >= numDofs {
				return fmt.Errorf("%w: sub-layout %d maps dof %d to parent dof %d, parent has %d",
					ErrConfig, i, j, p, numDofs)
			}
		}
		if path := c.detachedDescendant([]int{i}); path != nil {
			return fmt.Errorf("%w: sub-layout %v has no parent map", ErrConfig, path)
		}
	}
	return nil
}

// detachedDescendant returns the path of the first layout below l that is not
// a view, or nil when every descendant carries a parent map. A copied tree
// fails here since Copy drops the parent maps of all its layouts.
func (l *Layout) detachedDescendant(path []int) []int {
	for i, c := range l.children {
		p := append(slices.Clone(path), i)
		if !c.IsView() {
			return p
		}
		if d := c.detachedDescendant(p); d != nil {
			return d
		}
	}
	return nil
}

// blockComponents builds one scalar child per block component k, whose slot s
// is parent dof s*bs+k
func blockComponents(topo cell.Topology, slots [][][]int, perms [][]int, numSlots, bs int) ([]*Layout, error) {
	children := make([]*Layout, bs)
	for k := range children {
		pm := make([]int, numSlots)
		for s := range pm {
			pm[s] = s*bs + k
		}
		c, err := New(topo, Definition{
			BlockSize:    1,
			EntityDofs:   slots,
			ParentMap:    pm,
			Permutations: perms,
		})
		if err != nil {
			return nil, fmt.Errorf("block component %d: %w", k, err)
		}
		children[k] = c
	}
	return children, nil
}

// IsView reports whether the layout is a sub-layout carrying a parent map
func (l *Layout) IsView() bool { return len(l.parentMap) > 0 }

// ParentMap returns a copy of the map from this layout's dofs to its parent's
func (l *Layout) ParentMap() []int { return slices.Clone(l.parentMap) }

// NumSubDofmaps is the number of immediate sub-layouts
func (l *Layout) NumSubDofmaps() int { return len(l.children) }

// SubDofmap walks path, one child index per level, and returns the layout
// reached. SubDofmap([]int{1, 0}) is child 0 of child 1.
func (l *Layout) SubDofmap(path []int) (*Layout, error) {
	chain, err := l.walk(path)
	if err != nil {
		return nil, err
	}
	return chain[len(chain)-1], nil
}

// SubView returns, for every dof of the sub-layout selected by path, the
// corresponding dof of this layout. Values of a sub-component contribution
// scatter into the full element vector at these indices.
func (l *Layout) SubView(path []int) ([]int, error) {
	chain, err := l.walk(path)
	if err != nil {
		return nil, err
	}
	leaf := chain[len(chain)-1]
	if !leaf.IsView() {
		return nil, fmt.Errorf("%w: sub-layout %v", ErrNotView, path)
	}
	view := slices.Clone(leaf.parentMap)
	// compose parent maps upwards, stopping below the root
	for lvl := len(chain) - 2; lvl > 0; lvl-- {
		up := chain[lvl]
		if !up.IsView() {
			return nil, fmt.Errorf("%w: sub-layout %v", ErrNotView, path[:lvl])
		}
		for i, d := range view {
			view[i] = up.parentMap[d]
		}
	}
	return view, nil
}

// walk returns the layouts visited along path, starting with l
func (l *Layout) walk(path []int) ([]*Layout, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty sub-layout path", ErrOutOfRange)
	}
	chain := make([]*Layout, 0, len(path)+1)
	chain = append(chain, l)
	cur := l
	for lvl, i := range path {
		if len(cur.children) == 0 {
			return nil, fmt.Errorf("%w: sub-layout %v has no sub-layouts, cannot select %d",
				ErrOutOfRange, path[:lvl], i)
		}
		if i < 0 || i >= len(cur.children) {
			return nil, fmt.Errorf("%w: sub-layout index %d at level %d, %d available",
				ErrOutOfRange, i, lvl, len(cur.children))
		}
		cur = cur.children[i]
		chain = append(chain, cur)
	}
	return chain, nil
}

// Copy returns a detached top-level layout with the same cell, block size,
// entity tables and permutation table. Every layout in the copied tree drops
// its parent map, so the copy can stand alone; SubDofmap still walks the
// copied children but SubView on them reports ErrNotView.
func (l *Layout) Copy() *Layout {
	c := l.clone()
	c.detach()
	return c
}

// clone copies the tree structure. The dof tables are immutable and shared.
func (l *Layout) clone() *Layout {
	c := *l
	c.parentMap = slices.Clone(l.parentMap)
	c.children = make([]*Layout, len(l.children))
	for i, child := range l.children {
		c.children[i] = child.clone()
	}
	return &c
}

func (l *Layout) detach() {
	l.parentMap = nil
	for _, c := range l.children {
		c.detach()
	}
}

// reparent returns a clone of l that maps into a parent through pm
func (l *Layout) reparent(pm []int) *Layout {
	c := l.clone()
	c.parentMap = pm
	return c
}
