package doflayout

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/notargets/doflayout/cell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutInvariants(t *testing.T) {
	for name, l := range allFixtures(t) {
		t.Run(name, func(t *testing.T) {
			assertPartition(t, l)
			assertClosure(t, l)
			assertBijections(t, l)
		})
	}
}

func TestP1TriangleScenario(t *testing.T) {
	l := p1Triangle(t)
	assert.Equal(t, 3, l.NumDofs())
	assert.Equal(t, 1, l.BlockSize())
	assert.Equal(t, cell.Triangle, l.CellType())
	assert.False(t, l.IsView())
	assert.Equal(t, 0, l.NumSubDofmaps())
	for i := 0; i < 3; i++ {
		dofs, err := l.EntityDofs(0, i)
		require.NoError(t, err)
		assert.Equal(t, []int{i}, dofs)
	}
	assert.Equal(t, 1, l.NumEntityDofs(0))
	assert.Equal(t, 0, l.NumEntityDofs(1))
	assert.Equal(t, 0, l.NumEntityDofs(2))
	for e := 0; e < 3; e++ {
		perm, err := l.Permutation(1, e, 0)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, perm)
	}
}

func TestP2TriangleScenario(t *testing.T) {
	l := p2Triangle(t)
	assert.Equal(t, 6, l.NumDofs())
	assert.Equal(t, 1, l.NumEntityClosureDofs(0))
	assert.Equal(t, 3, l.NumEntityClosureDofs(1))
	assert.Equal(t, 6, l.NumEntityClosureDofs(2))
	for e := 0; e < 3; e++ {
		closure, err := l.EntityClosureDofs(1, e)
		require.NoError(t, err)
		assert.Len(t, closure, 3)
		assert.Contains(t, closure, 3+e)
	}
	// edge 0 joins vertices 1 and 2
	closure, err := l.EntityClosureDofs(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, closure)

	closure, err = l.EntityClosureDofs(2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, closure)
}

func TestP2TetrahedronClosures(t *testing.T) {
	l := p2Tetrahedron(t)
	assert.Equal(t, 10, l.NumDofs())
	assert.Equal(t, 3, l.NumEntityClosureDofs(1))
	assert.Equal(t, 6, l.NumEntityClosureDofs(2))
	assert.Equal(t, 10, l.NumEntityClosureDofs(3))

	// face 3 = vertices {0,1,2}, edges 2, 4, 5
	closure, err := l.EntityClosureDofs(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 6, 8, 9}, closure)
}

func TestEntityQueriesOutOfRange(t *testing.T) {
	l := p2Triangle(t)
	tests := []struct {
		name        string
		dim, entity int
	}{
		{"negative dimension", -1, 0},
		{"dimension above cell", 3, 0},
		{"negative entity", 1, -1},
		{"edge index past end", 1, 3},
		{"second cell entity", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.EntityDofs(tt.dim, tt.entity)
			assert.ErrorIs(t, err, ErrOutOfRange)
			_, err = l.EntityClosureDofs(tt.dim, tt.entity)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
	assert.Equal(t, 0, l.NumEntityDofs(3))
	assert.Equal(t, 0, l.NumEntityClosureDofs(-1))
}

func TestNewRejectsMalformedDefinitions(t *testing.T) {
	tri := [][][]int{{{0}, {1}, {2}}, {{}, {}, {}}, {{}}}
	tests := []struct {
		name string
		def  Definition
	}{
		{"zero block size", Definition{BlockSize: 0, EntityDofs: tri}},
		{"missing dimension", Definition{BlockSize: 1, EntityDofs: tri[:2]}},
		{"missing edge", Definition{BlockSize: 1, EntityDofs: [][][]int{{{0}, {1}, {2}}, {{}, {}}, {{}}}}},
		{"gap in dofs", Definition{BlockSize: 1, EntityDofs: [][][]int{{{0}, {1}, {3}}, {{}, {}, {}}, {{}}}}},
		{"duplicate dof", Definition{BlockSize: 1, EntityDofs: [][][]int{{{0}, {1}, {1}}, {{}, {}, {}}, {{}}}}},
		{"negative dof", Definition{BlockSize: 1, EntityDofs: [][][]int{{{0}, {1}, {-1}}, {{}, {}, {}}, {{}}}}},
		{"no dofs", Definition{BlockSize: 1, EntityDofs: [][][]int{{{}, {}, {}}, {{}, {}, {}}, {{}}}}},
		{"non-uniform vertices", Definition{BlockSize: 1, EntityDofs: [][][]int{{{0}, {1}, {2, 3}}, {{}, {}, {}}, {{}}}}},
		{"non-uniform edges", Definition{BlockSize: 1, EntityDofs: [][][]int{{{0}, {1}, {2}}, {{3}, {}, {}}, {{}}}}},
		{"too few permutation rows", Definition{BlockSize: 1, EntityDofs: tri, Permutations: [][]int{{0, 1, 2}}}},
		{"short permutation row", Definition{BlockSize: 1, EntityDofs: tri,
			Permutations: [][]int{{0, 1, 2}, {0, 1, 2}, {0, 1, 2}, {0, 1, 2}, {0, 1}}}},
		{"non-bijective permutation", Definition{BlockSize: 1, EntityDofs: tri,
			Permutations: [][]int{{0, 1, 2}, {0, 0, 2}, {0, 1, 2}, {0, 1, 2}, {0, 1, 2}}}},
		{"permutation entry out of range", Definition{BlockSize: 1, EntityDofs: tri,
			Permutations: [][]int{{0, 1, 2}, {0, 1, 3}, {0, 1, 2}, {0, 1, 2}, {0, 1, 2}}}},
		{"parent map too short", Definition{BlockSize: 1, EntityDofs: tri, ParentMap: []int{0, 1}}},
		{"parent map repeats", Definition{BlockSize: 1, EntityDofs: tri, ParentMap: []int{0, 1, 1}}},
		{"parent map negative", Definition{BlockSize: 1, EntityDofs: tri, ParentMap: []int{0, -1, 2}}},
		{"nil child", Definition{BlockSize: 1, EntityDofs: tri, Children: []*Layout{nil}}},
	}
	topo := mustTopology(t, cell.Triangle)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(topo, tt.def)
			assert.ErrorIs(t, err, ErrConfig)
			assert.Nil(t, l)
		})
	}

	_, err := New(nil, Definition{BlockSize: 1, EntityDofs: tri})
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, cell.ErrTopology)
}

func TestBlockedEntityDofsInterleave(t *testing.T) {
	l, err := NewBlocked(p1Triangle(t), 2)
	require.NoError(t, err)
	assert.Equal(t, 6, l.NumDofs())
	assert.Equal(t, 2, l.BlockSize())
	assert.Equal(t, 2, l.NumEntityDofs(0))
	assert.Equal(t, 4, l.NumEntityClosureDofs(1))

	dofs, err := l.EntityDofs(0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, dofs)

	closure, err := l.EntityClosureDofs(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4, 5}, closure)

	// one generated component child per block entry
	require.Equal(t, 2, l.NumSubDofmaps())
	for k := 0; k < 2; k++ {
		sub, err := l.SubDofmap([]int{k})
		require.NoError(t, err)
		assert.True(t, sub.IsView())
		assert.Equal(t, 1, sub.BlockSize())
		assert.Equal(t, 3, sub.NumDofs())
		assert.Equal(t, 0, sub.NumSubDofmaps())
		view, err := l.SubView([]int{k})
		require.NoError(t, err)
		assert.Equal(t, []int{k, 2 + k, 4 + k}, view)
	}
}

func TestBlockedRejectsNonScalar(t *testing.T) {
	vec, err := NewBlocked(p1Triangle(t), 3)
	require.NoError(t, err)
	_, err = NewBlocked(vec, 2)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = NewBlocked(nil, 2)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = NewBlocked(p1Triangle(t), 0)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestTablesAreCopies(t *testing.T) {
	l := p2Triangle(t)
	all := l.EntityDofsAll()
	all[0][0][0] = 99
	closures := l.EntityClosureDofsAll()
	closures[1][0][0] = 99
	dofs, err := l.EntityDofs(0, 0)
	require.NoError(t, err)
	dofs[0] = 42

	dofs, err = l.EntityDofs(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, dofs)
	closure, err := l.EntityClosureDofs(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, closure)
}

func TestEntityDofsSortedRegardlessOfInputOrder(t *testing.T) {
	l := mustLayout(t, cell.Interval, Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{3}, {0}}, {{2, 1}}},
	})
	dofs, err := l.EntityDofs(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, dofs)
	closure, err := l.EntityClosureDofs(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, closure)
}

func TestWithLoggerTracesConstruction(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	_, err := New(mustTopology(t, cell.Triangle), Definition{
		BlockSize:  2,
		EntityDofs: [][][]int{{{0}, {1}, {2}}, {{}, {}, {}}, {{}}},
	}, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "built dof layout")
	assert.Contains(t, buf.String(), "generated block components")

	buf.Reset()
	_, err = New(mustTopology(t, cell.Triangle), Definition{
		BlockSize:  1,
		EntityDofs: [][][]int{{{0}, {1}, {2}}, {{}, {}, {}}, {{}}},
	}, WithLogger(nil))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestStringSummary(t *testing.T) {
	s := taylorHood(t).String()
	assert.Contains(t, s, "Cell: triangle")
	assert.Contains(t, s, "Dofs: 15 (block size 1)")
	assert.Contains(t, s, "--- Sub-layout 1 ---")
	assert.Contains(t, s, "Dofs: 12 (block size 2)")
}
