package cell

import (
	"fmt"
	"slices"
)

// ReferenceTopology is a Topology built from per-entity vertex lists. It is
// immutable after construction and safe for concurrent use.
type ReferenceTopology struct {
	cellType Type
	vertices [][][]int   // [dim][entity] -> sorted vertex indices
	sub      [][][][]int // [dim][entity][subDim] -> sub-entity indices
}

// NewTopology builds a topology from entityVertices[dim][entity] = vertex list.
// Dimension 0 must list the vertices in order, the top dimension must hold the
// single cell entity, and sub-entity adjacency is derived by vertex inclusion.
func NewTopology(t Type, entityVertices [][][]int) (*ReferenceTopology, error) {
	tdim := t.Dim()
	if tdim < 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	if len(entityVertices) != tdim+1 {
		return nil, fmt.Errorf("%w: %v needs %d dimensions of entities, got %d",
			ErrTopology, t, tdim+1, len(entityVertices))
	}
	if len(entityVertices[tdim]) != 1 {
		return nil, fmt.Errorf("%w: %v must have exactly one entity of dimension %d, got %d",
			ErrTopology, t, tdim, len(entityVertices[tdim]))
	}

	nverts := len(entityVertices[0])
	rt := &ReferenceTopology{
		cellType: t,
		vertices: make([][][]int, tdim+1),
	}
	for d, ents := range entityVertices {
		rt.vertices[d] = make([][]int, len(ents))
		seen := make(map[string]int, len(ents))
		for e, verts := range ents {
			if d == 0 && (len(verts) != 1 || verts[0] != e) {
				return nil, fmt.Errorf("%w: vertex %d must be listed as [%d], got %v",
					ErrTopology, e, e, verts)
			}
			if len(verts) < d+1 {
				return nil, fmt.Errorf("%w: entity (%d, %d) has %d vertices, need at least %d",
					ErrTopology, d, e, len(verts), d+1)
			}
			sorted := slices.Clone(verts)
			slices.Sort(sorted)
			for i, v := range sorted {
				if v < 0 || v >= nverts {
					return nil, fmt.Errorf("%w: entity (%d, %d) references vertex %d, cell has %d",
						ErrTopology, d, e, v, nverts)
				}
				if i > 0 && sorted[i-1] == v {
					return nil, fmt.Errorf("%w: entity (%d, %d) repeats vertex %d",
						ErrTopology, d, e, v)
				}
			}
			key := fmt.Sprint(sorted)
			if prev, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: entities (%d, %d) and (%d, %d) share vertices %v",
					ErrTopology, d, prev, d, e, sorted)
			}
			seen[key] = e
			rt.vertices[d][e] = sorted
		}
	}

	rt.sub = make([][][][]int, tdim+1)
	for d := 0; d <= tdim; d++ {
		rt.sub[d] = make([][][]int, len(rt.vertices[d]))
		for e := range rt.vertices[d] {
			rt.sub[d][e] = make([][]int, d+1)
			for sd := 0; sd <= d; sd++ {
				for se, sverts := range rt.vertices[sd] {
					if isSubset(sverts, rt.vertices[d][e]) {
						rt.sub[d][e][sd] = append(rt.sub[d][e][sd], se)
					}
				}
			}
		}
	}
	return rt, nil
}

// isSubset reports whether sorted slice a is contained in sorted slice b
func isSubset(a, b []int) bool {
	j := 0
	for _, v := range a {
		for j < len(b) && b[j] < v {
			j++
		}
		if j == len(b) || b[j] != v {
			return false
		}
	}
	return true
}

func (rt *ReferenceTopology) Type() Type { return rt.cellType }

func (rt *ReferenceTopology) Dim() int { return len(rt.vertices) - 1 }

func (rt *ReferenceTopology) NumEntities(dim int) int {
	if dim < 0 || dim >= len(rt.vertices) {
		return 0
	}
	return len(rt.vertices[dim])
}

func (rt *ReferenceTopology) SubEntities(dim, entity, subDim int) []int {
	if dim < 0 || dim >= len(rt.sub) || entity < 0 || entity >= len(rt.sub[dim]) ||
		subDim < 0 || subDim > dim {
		return nil
	}
	return slices.Clone(rt.sub[dim][entity][subDim])
}

// EntityVertices returns the sorted vertex indices of entity (dim, entity)
func (rt *ReferenceTopology) EntityVertices(dim, entity int) []int {
	if dim < 0 || dim >= len(rt.vertices) || entity < 0 || entity >= len(rt.vertices[dim]) {
		return nil
	}
	return slices.Clone(rt.vertices[dim][entity])
}

// Reference returns the standard topology for a cell type. Numbering follows
// the DOLFINx/Basix convention: facet i of a simplex is the one opposite
// vertex i, and tensor-product cells number vertices lexicographically.
func Reference(t Type) (*ReferenceTopology, error) {
	ev, ok := referenceVertices[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	return NewTopology(t, ev)
}

var referenceVertices = map[Type][][][]int{
	Point: {
		{{0}},
	},
	Interval: {
		{{0}, {1}},
		{{0, 1}},
	},
	Triangle: {
		{{0}, {1}, {2}},
		{{1, 2}, {0, 2}, {0, 1}},
		{{0, 1, 2}},
	},
	Quadrilateral: {
		{{0}, {1}, {2}, {3}},
		{{0, 1}, {0, 2}, {1, 3}, {2, 3}},
		{{0, 1, 2, 3}},
	},
	Tetrahedron: {
		{{0}, {1}, {2}, {3}},
		{{2, 3}, {1, 3}, {1, 2}, {0, 3}, {0, 2}, {0, 1}},
		{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}},
		{{0, 1, 2, 3}},
	},
	Hexahedron: {
		{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}},
		{
			{0, 1}, {0, 2}, {0, 4}, {1, 3}, {1, 5}, {2, 3},
			{2, 6}, {3, 7}, {4, 5}, {4, 6}, {5, 7}, {6, 7},
		},
		{
			{0, 1, 2, 3}, {0, 1, 4, 5}, {0, 2, 4, 6},
			{1, 3, 5, 7}, {2, 3, 6, 7}, {4, 5, 6, 7},
		},
		{{0, 1, 2, 3, 4, 5, 6, 7}},
	},
}
