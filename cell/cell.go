package cell

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownType = errors.New("unknown cell type")
	ErrTopology    = errors.New("invalid cell topology")
)

// Type identifies the shape of a reference cell
type Type uint8

const (
	Point         Type = iota // 0D
	Interval                  // 1D line segment
	Triangle                  // 2D
	Quadrilateral             // 2D
	Tetrahedron               // 3D
	Hexahedron                // 3D
)

var typeNames = map[Type]string{
	Point:         "point",
	Interval:      "interval",
	Triangle:      "triangle",
	Quadrilateral: "quadrilateral",
	Tetrahedron:   "tetrahedron",
	Hexahedron:    "hexahedron",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Dim returns the topological dimension of the cell, or -1 for an unknown type
func (t Type) Dim() int {
	switch t {
	case Point:
		return 0
	case Interval:
		return 1
	case Triangle, Quadrilateral:
		return 2
	case Tetrahedron, Hexahedron:
		return 3
	}
	return -1
}

// ParseType accepts the lower case type names plus a few common aliases
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "line":
		return Interval, nil
	case "tri":
		return Triangle, nil
	case "quad":
		return Quadrilateral, nil
	case "tet":
		return Tetrahedron, nil
	case "hex":
		return Hexahedron, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Topology provides the sub-entity adjacency of one reference cell.
// Entities of dimension d are numbered 0..NumEntities(d)-1.
type Topology interface {
	Type() Type
	Dim() int
	NumEntities(dim int) int
	// SubEntities returns the entities of dimension subDim on the closure of
	// entity (dim, entity), in ascending order. Returns nil when any argument
	// is out of range.
	SubEntities(dim, entity, subDim int) []int
}

// Validate checks that a Topology, possibly supplied from outside this package,
// is internally consistent: one cell entity, and every reported sub-entity
// index in range.
func Validate(topo Topology) error {
	if topo == nil {
		return fmt.Errorf("%w: nil topology", ErrTopology)
	}
	tdim := topo.Dim()
	if tdim < 0 || tdim > 3 {
		return fmt.Errorf("%w: unsupported dimension %d", ErrTopology, tdim)
	}
	if tdim != topo.Type().Dim() {
		return fmt.Errorf("%w: %v has dimension %d, topology reports %d",
			ErrTopology, topo.Type(), topo.Type().Dim(), tdim)
	}
	if n := topo.NumEntities(tdim); n != 1 {
		return fmt.Errorf("%w: expected one entity of dimension %d, got %d", ErrTopology, tdim, n)
	}
	for d := 0; d <= tdim; d++ {
		for e := 0; e < topo.NumEntities(d); e++ {
			for sd := 0; sd <= d; sd++ {
				sub := topo.SubEntities(d, e, sd)
				if len(sub) == 0 {
					return fmt.Errorf("%w: entity (%d, %d) has no sub-entities of dimension %d",
						ErrTopology, d, e, sd)
				}
				for _, se := range sub {
					if se < 0 || se >= topo.NumEntities(sd) {
						return fmt.Errorf("%w: entity (%d, %d) lists sub-entity (%d, %d), only %d exist",
							ErrTopology, d, e, sd, se, topo.NumEntities(sd))
					}
				}
			}
		}
	}
	return nil
}
