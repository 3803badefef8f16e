package gfan

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInput              = errors.New("bad input ideal")
	ErrEmptyIdeal         = errors.New("ideal has no nonzero generators")
	ErrRingMismatch       = errors.New("polynomial is inconsistent with the ring")
	ErrHomogeneityHint    = errors.New("homogeneity hint does not match the ideal")
	ErrGeometryDegenerate = errors.New("cone is not full-dimensional")
	ErrFlipInconsistency  = errors.New("flip produced an inconsistent basis")
	ErrCanonicalParent    = errors.New("cone has no canonical parent facet")
	ErrDuplicateCone      = errors.New("cone was already emitted")
	ErrResourceExhausted  = errors.New("search list capacity exceeded")
	ErrNotFlippable       = errors.New("facet is not flippable")
	ErrBadCheckpoint      = errors.New("bad cone checkpoint")
	ErrBadParam           = errors.New("bad enumeration param")
	ErrStoreClosed        = errors.New("cone store is closed")
)

// FlipError reports a flip whose result failed the consistency check.
// It unwraps to ErrFlipInconsistency.
type FlipError struct {
	ConeID int
	Normal Vector
	Reason string
}

func (e *FlipError) Error() string {
	return fmt.Sprintf("%v: cone %d, facet normal %v: %s", ErrFlipInconsistency, e.ConeID, e.Normal, e.Reason)
}

func (e *FlipError) Unwrap() error { return ErrFlipInconsistency }

// GeometryError reports a cone whose polyhedral description is empty or not full-dimensional.
// It unwraps to ErrGeometryDegenerate.
type GeometryError struct {
	ConeID int
	Rank   int
	Dim    int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: cone %d has rank %d in dimension %d", ErrGeometryDegenerate, e.ConeID, e.Rank, e.Dim)
}

func (e *GeometryError) Unwrap() error { return ErrGeometryDegenerate }
