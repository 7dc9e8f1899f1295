// Package elementfile reads element dof layout definitions from TOML files.
//
// A file describes one element. A plain element lists its entity dofs as
// scalar slots per dimension and entity; a mixed element omits them and
// lists its components as [[sub]] tables, which are concatenated in order:
//
//	name = "Taylor-Hood P2-P1"
//	cell = "triangle"
//
//	[[sub]]
//	name = "velocity"
//	block_size = 2
//	entity_dofs = [[[0], [1], [2]], [[3], [4], [5]], [[]]]
//
//	[[sub]]
//	name = "pressure"
//	entity_dofs = [[[0], [1], [2]], [[], [], []], [[]]]
//
// Sub-elements inherit the cell of their parent.
package elementfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/notargets/doflayout/cell"
	"github.com/notargets/doflayout/doflayout"
)

var ErrFormat = errors.New("invalid element file")

// Element is one (sub-)element table of a file
type Element struct {
	Name         string    `toml:"name"`
	Cell         string    `toml:"cell"`
	BlockSize    int       `toml:"block_size"`
	EntityDofs   [][][]int `toml:"entity_dofs"`
	Permutations [][]int   `toml:"permutations"`
	Sub          []Element `toml:"sub"`
}

// File is a parsed element file; the top-level table is the root element
type File struct {
	Path string `toml:"-"`
	Element
}

// Load reads and parses the element file at path
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read element file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes an element file, rejecting unknown keys
func Parse(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrFormat, strings.Join(keys, ", "))
	}
	if f.Cell == "" {
		return nil, fmt.Errorf("%w: missing cell", ErrFormat)
	}
	return &f, nil
}

// Build constructs the layout tree described by the file
func (f *File) Build(opts ...doflayout.Option) (*doflayout.Layout, error) {
	ct, err := cell.ParseType(f.Cell)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	topo, err := cell.Reference(ct)
	if err != nil {
		return nil, err
	}
	return f.Element.build(topo, "root", opts)
}

func (e *Element) build(topo cell.Topology, where string, opts []doflayout.Option) (*doflayout.Layout, error) {
	if e.Name != "" {
		where = fmt.Sprintf("%s (%s)", where, e.Name)
	}
	if e.Cell != "" {
		ct, err := cell.ParseType(e.Cell)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFormat, where, err)
		}
		if ct != topo.Type() {
			return nil, fmt.Errorf("%w: %s: cell %v differs from enclosing %v", ErrFormat, where, ct, topo.Type())
		}
	}

	if len(e.Sub) == 0 {
		if len(e.EntityDofs) == 0 {
			return nil, fmt.Errorf("%w: %s: needs entity_dofs or sub elements", ErrFormat, where)
		}
		bs := e.BlockSize
		if bs == 0 {
			bs = 1
		}
		l, err := doflayout.New(topo, doflayout.Definition{
			BlockSize:    bs,
			EntityDofs:   e.EntityDofs,
			Permutations: e.Permutations,
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		return l, nil
	}

	if len(e.EntityDofs) > 0 || len(e.Permutations) > 0 || (e.BlockSize != 0 && e.BlockSize != 1) {
		return nil, fmt.Errorf("%w: %s: a mixed element is composed from its sub elements only", ErrFormat, where)
	}
	subs := make([]*doflayout.Layout, len(e.Sub))
	for i := range e.Sub {
		l, err := e.Sub[i].build(topo, fmt.Sprintf("%s/sub %d", where, i), opts)
		if err != nil {
			return nil, err
		}
		subs[i] = l
	}
	l, err := doflayout.NewMixed(subs, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	return l, nil
}
