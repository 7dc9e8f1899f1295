// Package doflayout describes how the local degrees of freedom of one finite
// element are laid out on its reference cell: which dofs sit on each vertex,
// edge, face and interior, which dofs belong to the closure of each entity,
// how a mixed or blocked element splits into sub-layouts, and the generator
// permutations that correct dof order for non-canonically oriented entities.
//
// A Layout is built once per element type from raw tables and is never
// mutated afterwards, so one instance can be shared by every cell of a mesh
// and read concurrently by any number of assembly workers.
package doflayout

import (
	"fmt"
	"slices"

	"github.com/notargets/doflayout/cell"
)

// Definition holds the raw tables produced by an element definition stage.
//
// Entity dofs and permutation rows enumerate scalar slots. With block size b
// slot s expands to the b consecutive dofs s*b+k, k = 0..b-1, so a layout has
// NumDofs() == slots*b and every query returns expanded dof indices.
type Definition struct {
	BlockSize int

	// EntityDofs[dim][entity] lists the slots attached directly to that entity.
	// Every slot in 0..slots-1 must appear exactly once.
	EntityDofs [][][]int

	// ParentMap maps each dof of this layout to a dof of its parent layout.
	// Empty for a top-level layout.
	ParentMap []int

	// Children are the sub-layouts of a mixed element. Each must be a view into
	// this layout. A blocked layout (BlockSize > 1) without children gets one
	// generated child per block component.
	Children []*Layout

	// Permutations holds one generator row over the slots for every
	// (dim, entity, generator) in that order. Nil means identity generators.
	Permutations [][]int
}

// Layout is the immutable dof layout of one element.
type Layout struct {
	topology  cell.Topology
	blockSize int
	numDofs   int

	numEntityDofs        []int     // [dim]
	numEntityClosureDofs []int     // [dim]
	entityDofs           [][][]int // [dim][entity] -> sorted dofs
	entityClosureDofs    [][][]int // [dim][entity] -> sorted dofs

	parentMap []int
	children  []*Layout

	permutations [][]int // [row] -> expanded generator, see permutationRow
}

// New validates def against the cell topology and builds the layout. Any
// malformed input fails the whole construction with an error wrapping
// ErrConfig; no partially built layout is returned.
func New(topo cell.Topology, def Definition, opts ...Option) (*Layout, error) {
	o := buildOptions(opts)
	if err := cell.Validate(topo); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	bs := def.BlockSize
	if bs < 1 {
		return nil, fmt.Errorf("%w: block size must be positive, got %d", ErrConfig, bs)
	}

	slots, numSlots, err := entitySlots(topo, def.EntityDofs)
	if err != nil {
		return nil, err
	}
	if _, err = uniformCounts(slots, "entity"); err != nil {
		return nil, err
	}
	slotClosures := entityClosures(topo, slots)
	if _, err = uniformCounts(slotClosures, "closure"); err != nil {
		return nil, err
	}

	perms, err := buildPermutations(topo, def.Permutations, numSlots, bs)
	if err != nil {
		return nil, err
	}

	l := &Layout{
		topology:          topo,
		blockSize:         bs,
		numDofs:           numSlots * bs,
		entityDofs:        expand(slots, bs),
		entityClosureDofs: expand(slotClosures, bs),
		permutations:      perms,
	}
	l.numEntityDofs, _ = uniformCounts(l.entityDofs, "entity")
	l.numEntityClosureDofs, _ = uniformCounts(l.entityClosureDofs, "closure")

	if l.parentMap, err = checkParentMap(def.ParentMap, l.numDofs); err != nil {
		return nil, err
	}

	children := def.Children
	if len(children) == 0 && bs > 1 {
		if children, err = blockComponents(topo, slots, def.Permutations, numSlots, bs); err != nil {
			return nil, err
		}
		o.debug("generated block components", "cell", topo.Type(), "components", bs)
	}
	if err = checkChildren(topo.Type(), l.numDofs, children); err != nil {
		return nil, err
	}
	l.children = slices.Clone(children)

	o.debug("built dof layout",
		"cell", topo.Type(),
		"dofs", l.numDofs,
		"block_size", bs,
		"entity_dofs", l.numEntityDofs,
		"closure_dofs", l.numEntityClosureDofs,
		"generators", len(l.permutations),
		"children", len(l.children),
		"view", l.IsView(),
	)
	return l, nil
}

// CellType is the reference cell the layout is defined on
func (l *Layout) CellType() cell.Type { return l.topology.Type() }

// Topology is the sub-entity adjacency the closures were computed from
func (l *Layout) Topology() cell.Topology { return l.topology }

// NumDofs is the dimension of the local element space, block components included
func (l *Layout) NumDofs() int { return l.numDofs }

// BlockSize is the number of dofs co-located at each slot
func (l *Layout) BlockSize() int { return l.blockSize }

// NumEntityDofs returns the dof count on each entity of dimension dim. A
// dimension the cell does not have carries no dofs.
func (l *Layout) NumEntityDofs(dim int) int {
	if dim < 0 || dim >= len(l.numEntityDofs) {
		return 0
	}
	return l.numEntityDofs[dim]
}

// NumEntityClosureDofs returns the dof count on the closure of each entity of
// dimension dim
func (l *Layout) NumEntityClosureDofs(dim int) int {
	if dim < 0 || dim >= len(l.numEntityClosureDofs) {
		return 0
	}
	return l.numEntityClosureDofs[dim]
}

// EntityDofs returns the dofs attached directly to entity (dim, entity), ascending
func (l *Layout) EntityDofs(dim, entity int) ([]int, error) {
	if err := l.checkEntity(dim, entity); err != nil {
		return nil, err
	}
	return slices.Clone(l.entityDofs[dim][entity]), nil
}

// EntityClosureDofs returns the dofs on entity (dim, entity) and on every
// lower dimensional entity of its boundary, ascending
func (l *Layout) EntityClosureDofs(dim, entity int) ([]int, error) {
	if err := l.checkEntity(dim, entity); err != nil {
		return nil, err
	}
	return slices.Clone(l.entityClosureDofs[dim][entity]), nil
}

// EntityDofsAll returns a copy of the whole table, indexed [dim][entity][i]
func (l *Layout) EntityDofsAll() [][][]int { return cloneTable(l.entityDofs) }

// EntityClosureDofsAll returns a copy of the whole closure table, indexed [dim][entity][i]
func (l *Layout) EntityClosureDofsAll() [][][]int { return cloneTable(l.entityClosureDofs) }

func (l *Layout) checkEntity(dim, entity int) error {
	tdim := l.topology.Dim()
	if dim < 0 || dim > tdim {
		return fmt.Errorf("%w: entity dimension %d outside [0, %d] for %v",
			ErrOutOfRange, dim, tdim, l.CellType())
	}
	if n := l.topology.NumEntities(dim); entity < 0 || entity >= n {
		return fmt.Errorf("%w: entity %d of dimension %d, %v has %d",
			ErrOutOfRange, entity, dim, l.CellType(), n)
	}
	return nil
}

func cloneTable(t [][][]int) [][][]int {
	out := make([][][]int, len(t))
	for d := range t {
		out[d] = make([][]int, len(t[d]))
		for e := range t[d] {
			out[d][e] = slices.Clone(t[d][e])
		}
	}
	return out
}
