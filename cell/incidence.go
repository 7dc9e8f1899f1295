package cell

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Entity names one topological sub-entity of a cell
type Entity struct {
	Dim, Index int
}

// Incidence is the Hasse diagram of a cell: a directed acyclic graph with an
// edge from every entity to each entity of one dimension lower on its boundary.
type Incidence struct {
	topo    Topology
	offsets []int64 // node ID of entity (d, 0); offsets[tdim+1] is the node count
	g       *simple.DirectedGraph
}

// NewIncidence builds the incidence graph of topo
func NewIncidence(topo Topology) *Incidence {
	tdim := topo.Dim()
	inc := &Incidence{
		topo:    topo,
		offsets: make([]int64, tdim+2),
		g:       simple.NewDirectedGraph(),
	}
	for d := 0; d <= tdim; d++ {
		inc.offsets[d+1] = inc.offsets[d] + int64(topo.NumEntities(d))
	}
	for id := int64(0); id < inc.offsets[tdim+1]; id++ {
		inc.g.AddNode(simple.Node(id))
	}
	for d := 1; d <= tdim; d++ {
		for e := 0; e < topo.NumEntities(d); e++ {
			from := simple.Node(inc.id(d, e))
			for _, se := range topo.SubEntities(d, e, d-1) {
				inc.g.SetEdge(simple.Edge{F: from, T: simple.Node(inc.id(d-1, se))})
			}
		}
	}
	return inc
}

func (inc *Incidence) id(dim, entity int) int64 {
	return inc.offsets[dim] + int64(entity)
}

func (inc *Incidence) entity(id int64) Entity {
	// offsets is ascending; the owning dimension is the last offset <= id
	d := sort.Search(len(inc.offsets), func(i int) bool { return inc.offsets[i] > id }) - 1
	return Entity{Dim: d, Index: int(id - inc.offsets[d])}
}

// Graph exposes the underlying directed graph
func (inc *Incidence) Graph() graph.Directed { return inc.g }

// Closure returns every lower dimensional entity reachable from (dim, entity),
// ordered by dimension and then index. The entity itself is not included.
func (inc *Incidence) Closure(dim, entity int) []Entity {
	if dim < 0 || dim > inc.topo.Dim() || entity < 0 || entity >= inc.topo.NumEntities(dim) {
		return nil
	}
	start := simple.Node(inc.id(dim, entity))
	var closure []Entity
	df := traverse.DepthFirst{
		Visit: func(n graph.Node) {
			if n.ID() != start.ID() {
				closure = append(closure, inc.entity(n.ID()))
			}
		},
	}
	df.Walk(inc.g, start, nil)
	slices.SortFunc(closure, func(a, b Entity) int {
		if a.Dim != b.Dim {
			return a.Dim - b.Dim
		}
		return a.Index - b.Index
	})
	return closure
}
