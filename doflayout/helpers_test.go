package doflayout

import (
	"testing"

	"github.com/notargets/doflayout/cell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTopology(t *testing.T, ct cell.Type) *cell.ReferenceTopology {
	t.Helper()
	topo, err := cell.Reference(ct)
	require.NoError(t, err)
	return topo
}

func mustLayout(t *testing.T, ct cell.Type, def Definition) *Layout {
	t.Helper()
	l, err := New(mustTopology(t, ct), def)
	require.NoError(t, err)
	return l
}

// Lagrange layouts on the reference cells, numbered vertices first, then edges,
// faces and interior

func p1Triangle(t *testing.T) *Layout {
	return mustLayout(t, cell.Triangle, Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{0}, {1}, {2}}, {{}, {}, {}}, {{}}},
	})
}

func p2Triangle(t *testing.T) *Layout {
	return mustLayout(t, cell.Triangle, Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{0}, {1}, {2}}, {{3}, {4}, {5}}, {{}}},
	})
}

// p3Triangle carries two dofs per edge, swapped when the edge is reversed
func p3Triangle(t *testing.T, bs int) *Layout {
	id := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	return mustLayout(t, cell.Triangle, Definition{
		BlockSize:  bs,
		EntityDofs: [][][]int{{{0}, {1}, {2}}, {{3, 4}, {5, 6}, {7, 8}}, {{9}}},
		Permutations: [][]int{
			{0, 1, 2, 4, 3, 5, 6, 7, 8, 9},
			{0, 1, 2, 3, 4, 6, 5, 7, 8, 9},
			{0, 1, 2, 3, 4, 5, 6, 8, 7, 9},
			id,
			id,
		},
	})
}

func p1Tetrahedron(t *testing.T) *Layout {
	return mustLayout(t, cell.Tetrahedron, Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{0}, {1}, {2}, {3}}, {{}, {}, {}, {}, {}, {}}, {{}, {}, {}, {}}, {{}}},
	})
}

func p2Tetrahedron(t *testing.T) *Layout {
	return mustLayout(t, cell.Tetrahedron, Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{0}, {1}, {2}, {3}}, {{4}, {5}, {6}, {7}, {8}, {9}}, {{}, {}, {}, {}}, {{}}},
	})
}

func q1Quadrilateral(t *testing.T) *Layout {
	return mustLayout(t, cell.Quadrilateral, Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{0}, {1}, {2}, {3}}, {{}, {}, {}, {}}, {{}}},
	})
}

func q1Hexahedron(t *testing.T) *Layout {
	return mustLayout(t, cell.Hexahedron, Definition{
		BlockSize: 1,
		EntityDofs: [][][]int{
			{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}},
			{{}, {}, {}, {}, {}, {}, {}, {}, {}, {}, {}, {}},
			{{}, {}, {}, {}, {}, {}},
			{{}},
		},
	})
}

func p2Interval(t *testing.T) *Layout {
	return mustLayout(t, cell.Interval, Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{0}, {1}}, {{2}}},
	})
}

func p0Point(t *testing.T) *Layout {
	return mustLayout(t, cell.Point, Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{0}}},
	})
}

// taylorHood is the vector P2 x P1 mixed layout of a Stokes discretisation
func taylorHood(t *testing.T) *Layout {
	vec, err := NewBlocked(p2Triangle(t), 2)
	require.NoError(t, err)
	th, err := NewMixed([]*Layout{vec, p1Triangle(t)})
	require.NoError(t, err)
	return th
}

func allFixtures(t *testing.T) map[string]*Layout {
	return map[string]*Layout{
		"P0 point":            p0Point(t),
		"P2 interval":         p2Interval(t),
		"P1 triangle":         p1Triangle(t),
		"P2 triangle":         p2Triangle(t),
		"P3 triangle":         p3Triangle(t, 1),
		"P3 triangle blocked": p3Triangle(t, 3),
		"Q1 quadrilateral":    q1Quadrilateral(t),
		"P1 tetrahedron":      p1Tetrahedron(t),
		"P2 tetrahedron":      p2Tetrahedron(t),
		"Q1 hexahedron":       q1Hexahedron(t),
		"Taylor-Hood":         taylorHood(t),
	}
}

// assertPartition checks every dof sits on exactly one entity
func assertPartition(t *testing.T, l *Layout) {
	t.Helper()
	count := make([]int, l.NumDofs())
	for d, ents := range l.EntityDofsAll() {
		for e, dofs := range ents {
			for _, dof := range dofs {
				if assert.Less(t, dof, l.NumDofs(), "entity (%d, %d)", d, e) {
					count[dof]++
				}
			}
		}
	}
	for dof, n := range count {
		assert.Equal(t, 1, n, "dof %d", dof)
	}
}

// assertClosure checks closures contain the entity's own dofs, exactly so on vertices
func assertClosure(t *testing.T, l *Layout) {
	t.Helper()
	topo := l.Topology()
	for d := 0; d <= topo.Dim(); d++ {
		for e := 0; e < topo.NumEntities(d); e++ {
			own, err := l.EntityDofs(d, e)
			require.NoError(t, err)
			closure, err := l.EntityClosureDofs(d, e)
			require.NoError(t, err)
			assert.Subset(t, closure, own, "entity (%d, %d)", d, e)
			assert.Len(t, closure, l.NumEntityClosureDofs(d))
			assert.Len(t, own, l.NumEntityDofs(d))
			if d == 0 {
				assert.Equal(t, own, closure)
			}
		}
	}
}

// assertBijections checks every generator row permutes 0..NumDofs-1
func assertBijections(t *testing.T, l *Layout) {
	t.Helper()
	topo := l.Topology()
	var rows int
	for d := 0; d <= topo.Dim(); d++ {
		for e := 0; e < topo.NumEntities(d); e++ {
			for g := 0; g < GeneratorCount(d); g++ {
				perm, err := l.Permutation(d, e, g)
				require.NoError(t, err)
				require.Len(t, perm, l.NumDofs())
				seen := make([]bool, l.NumDofs())
				for _, p := range perm {
					require.GreaterOrEqual(t, p, 0)
					require.Less(t, p, l.NumDofs())
					assert.False(t, seen[p], "entity (%d, %d) generator %d repeats %d", d, e, g, p)
					seen[p] = true
				}
				rows++
			}
		}
	}
	assert.Equal(t, rows, l.NumPermutations())
}
