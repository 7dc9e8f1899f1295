package doflayout

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Pick gathers the values of a sub-layout from a full element vector:
// dst[i] = src[view[i]]. view is typically the result of SubView.
func Pick(view []int, src, dst []float64) error {
	if len(dst) != len(view) {
		return fmt.Errorf("%w: pick buffer length %d does not match view length %d",
			ErrOutOfRange, len(dst), len(view))
	}
	for i, idx := range view {
		if idx < 0 || idx >= len(src) {
			return fmt.Errorf("%w: pick index %d out of bounds for source of length %d",
				ErrOutOfRange, idx, len(src))
		}
		dst[i] = src[idx]
	}
	return nil
}

// Place adds a sub-layout contribution into a full element vector:
// dst[view[i]] += vals[i]. Nothing is written unless every index is valid.
func Place(view []int, vals, dst []float64) error {
	if len(vals) != len(view) {
		return fmt.Errorf("%w: place buffer length %d does not match view length %d",
			ErrOutOfRange, len(vals), len(view))
	}
	for _, idx := range view {
		if idx < 0 || idx >= len(dst) {
			return fmt.Errorf("%w: place index %d out of bounds for destination of length %d",
				ErrOutOfRange, idx, len(dst))
		}
	}
	for i, idx := range view {
		dst[idx] += vals[i]
	}
	return nil
}

// PickVec is Pick on gonum vectors. dst must have the length of view.
func PickVec(view []int, src mat.Vector, dst *mat.VecDense) error {
	if dst.Len() != len(view) {
		return fmt.Errorf("%w: pick vector length %d does not match view length %d",
			ErrOutOfRange, dst.Len(), len(view))
	}
	for i, idx := range view {
		if idx < 0 || idx >= src.Len() {
			return fmt.Errorf("%w: pick index %d out of bounds for source of length %d",
				ErrOutOfRange, idx, src.Len())
		}
		dst.SetVec(i, src.AtVec(idx))
	}
	return nil
}

// PlaceVec is Place on gonum vectors
func PlaceVec(view []int, vals mat.Vector, dst *mat.VecDense) error {
	if vals.Len() != len(view) {
		return fmt.Errorf("%w: place vector length %d does not match view length %d",
			ErrOutOfRange, vals.Len(), len(view))
	}
	for _, idx := range view {
		if idx < 0 || idx >= dst.Len() {
			return fmt.Errorf("%w: place index %d out of bounds for destination of length %d",
				ErrOutOfRange, idx, dst.Len())
		}
	}
	for i, idx := range view {
		dst.SetVec(idx, dst.AtVec(idx)+vals.AtVec(i))
	}
	return nil
}
