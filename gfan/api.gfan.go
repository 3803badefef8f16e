package gfan

import (
	"io"
)

// Heuristic selects the canonical-parent tie-break and the order the work list is explored in.
type Heuristic int32

const (
	// Breadth-first work list; the parent facet is the lexicographically smallest incoming normal.
	Heuristic_BreadthFirst Heuristic = 0

	// Depth-first work list; the parent facet is the lexicographically largest incoming normal.
	Heuristic_DepthFirst Heuristic = 1

	// Breadth-first work list; the parent facet is the incoming normal that is smallest under the root order.
	Heuristic_SteepestEdge Heuristic = 2

	Heuristic_Default = Heuristic_BreadthFirst
)

func (h Heuristic) String() string {
	switch h {
	case Heuristic_BreadthFirst:
		return "breadth-first"
	case Heuristic_DepthFirst:
		return "depth-first"
	case Heuristic_SteepestEdge:
		return "steepest-edge"
	}
	return "unknown"
}

// IsValid returns true if h is a known heuristic code.
func (h Heuristic) IsValid() bool {
	return h >= Heuristic_BreadthFirst && h <= Heuristic_SteepestEdge
}

// Compression specifies how spilled cone records are compressed.
type Compression uint8

const (
	Compression_None Compression = 0
	Compression_LZ4  Compression = 1
	Compression_ZSTD Compression = 2
)

// EnumOpts specifies params for a Gröbner fan enumeration.
type EnumOpts struct {
	Heuristic       Heuristic   // tie-break and exploration order
	HomogeneousHint bool        // caller asserts the input ideal is homogeneous
	MaxSearchList   int         // max pending cones held in memory (0 denotes unbounded)
	Spill           bool        // if set, pending cones beyond MaxSearchList are written to the cone catalog
	SpillPathName   string      // new or empty catalog dir (omit for a temp dir removed when done)
	Compression     Compression // spill record compression
	Workers         int         // number of concurrent flips per cone (<= 1 is serial)
	SkipFlipCheck   bool        // if set, flip results are not re-verified
	VerifyUnique    bool        // if set, each emitted basis is checked against every earlier one
}

// ConeState is one enumerated cone of a Gröbner fan.
type ConeState interface {

	// ID is the cone's unique number within one enumeration.
	ID() int

	// PredID is the ID of the cone this one was discovered from (-1 for the root).
	PredID() int

	// InteriorPoint is a weight vector strictly inside the cone.
	InteriorPoint() Vector

	// NumFacets returns the number of irredundant facets of the cone.
	NumFacets() int

	// FacetNormals returns the inner normal of each facet.
	FacetNormals() []Vector

	// Generators returns the cone's reduced Gröbner basis as strings.
	Generators() []string

	WriteAsString(out io.Writer, opts PrintOpts)
}

// PrintOpts specifies what is printed when printing a cone
type PrintOpts struct {
	Label   string // Prefix label
	Basis   bool   // If set, prints the reduced Gröbner basis
	Facets  bool   // If set, prints facet normals and flippability
	Rays    bool   // If set, prints the extreme rays
	Context bool   // If set, prints the term order the basis was computed in
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Basis: true,
}
