package doflayout

import (
	"fmt"
	"slices"

	"github.com/notargets/doflayout/cell"
	"gonum.org/v1/gonum/mat"
)

// generators per entity of each dimension: vertices have none, an edge can be
// reversed, a face rotated or reflected, a volume rotated about three axes or
// reflected
var generators = [4]int{0, 1, 2, 4}

// GeneratorCount returns the number of base permutations stored for each
// entity of dimension dim
func GeneratorCount(dim int) int {
	if dim < 0 || dim >= len(generators) {
		return 0
	}
	return generators[dim]
}

// rowOffset is the first table row of the generators of dimension dim
func rowOffset(topo cell.Topology, dim int) int {
	var off int
	for d := 0; d < dim; d++ {
		off += topo.NumEntities(d) * GeneratorCount(d)
	}
	return off
}

func numPermutationRows(topo cell.Topology) int {
	return rowOffset(topo, topo.Dim()+1)
}

// buildPermutations validates raw slot generators (or builds identities when
// raw is nil) and expands them over the block components
func buildPermutations(topo cell.Topology, raw [][]int, numSlots, bs int) ([][]int, error) {
	nrows := numPermutationRows(topo)
	if raw == nil {
		raw = make([][]int, nrows)
		for r := range raw {
			raw[r] = identity(numSlots)
		}
	}
	if len(raw) != nrows {
		return nil, fmt.Errorf("%w: %v needs %d permutation rows, got %d",
			ErrConfig, topo.Type(), nrows, len(raw))
	}

	seen := make([]int, numSlots)
	rows := make([][]int, nrows)
	for r, row := range raw {
		if len(row) != numSlots {
			return nil, fmt.Errorf("%w: permutation row %d has length %d, expected %d",
				ErrConfig, r, len(row), numSlots)
		}
		for i, p := range row {
			if p < 0 || p >= numSlots {
				return nil, fmt.Errorf("%w: permutation row %d maps %d to %d, outside [0, %d)",
					ErrConfig, r, i, p, numSlots)
			}
			// seen holds r+1 for entries already hit by this row
			if seen[p] == r+1 {
				return nil, fmt.Errorf("%w: permutation row %d is not a bijection, %d appears twice",
					ErrConfig, r, p)
			}
			seen[p] = r + 1
		}
		rows[r] = expandPermutation(row, bs)
	}
	return rows, nil
}

func expandPermutation(row []int, bs int) []int {
	out := make([]int, len(row)*bs)
	for s, p := range row {
		for k := 0; k < bs; k++ {
			out[s*bs+k] = p*bs + k
		}
	}
	return out
}

func identity(n int) []int {
	id := make([]int, n)
	for i := range id {
		id[i] = i
	}
	return id
}

// NumPermutations is the number of generator rows in the table
func (l *Layout) NumPermutations() int { return len(l.permutations) }

// Permutation returns generator gen of entity (dim, entity)
func (l *Layout) Permutation(dim, entity, gen int) ([]int, error) {
	r, err := l.permutationRow(dim, entity, gen)
	if err != nil {
		return nil, err
	}
	return slices.Clone(l.permutations[r]), nil
}

func (l *Layout) permutationRow(dim, entity, gen int) (int, error) {
	if err := l.checkEntity(dim, entity); err != nil {
		return 0, err
	}
	if n := GeneratorCount(dim); gen < 0 || gen >= n {
		return 0, fmt.Errorf("%w: generator %d of a dimension %d entity, which has %d",
			ErrOutOfRange, gen, dim, n)
	}
	return rowOffset(l.topology, dim) + entity*GeneratorCount(dim) + gen, nil
}

// BasePermutations returns the generator table as a NumPermutations x NumDofs
// matrix, rows ordered by (dim, entity, generator). Entries are dof indices.
// Returns nil when the cell has no generators.
func (l *Layout) BasePermutations() *mat.Dense {
	if len(l.permutations) == 0 {
		return nil
	}
	m := mat.NewDense(len(l.permutations), l.numDofs, nil)
	for r, row := range l.permutations {
		for c, p := range row {
			m.Set(r, c, float64(p))
		}
	}
	return m
}

// Permute applies table row `row` to values in place: afterwards values[i]
// holds the entry previously at values[perm[i]].
func (l *Layout) Permute(row int, values []float64) error {
	if row < 0 || row >= len(l.permutations) {
		return fmt.Errorf("%w: permutation row %d, table has %d", ErrOutOfRange, row, len(l.permutations))
	}
	if len(values) != l.numDofs {
		return fmt.Errorf("%w: %d values for a layout with %d dofs", ErrOutOfRange, len(values), l.numDofs)
	}
	old := slices.Clone(values)
	for i, p := range l.permutations[row] {
		values[i] = old[p]
	}
	return nil
}

// PermuteVec applies table row `row` to a gonum vector in place
func (l *Layout) PermuteVec(row int, v *mat.VecDense) error {
	if row < 0 || row >= len(l.permutations) {
		return fmt.Errorf("%w: permutation row %d, table has %d", ErrOutOfRange, row, len(l.permutations))
	}
	if v.Len() != l.numDofs {
		return fmt.Errorf("%w: vector of length %d for a layout with %d dofs", ErrOutOfRange, v.Len(), l.numDofs)
	}
	old := mat.VecDenseCopyOf(v)
	for i, p := range l.permutations[row] {
		v.SetVec(i, old.AtVec(p))
	}
	return nil
}

// PermuteEntity applies generator gen of entity (dim, entity) to values in place
func (l *Layout) PermuteEntity(dim, entity, gen int, values []float64) error {
	r, err := l.permutationRow(dim, entity, gen)
	if err != nil {
		return err
	}
	return l.Permute(r, values)
}
