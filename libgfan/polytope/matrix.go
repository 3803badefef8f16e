package polytope

import (
	"math/big"

	"github.com/2x3systems/gfan/gfan"
)

// Matrix is a dense rational matrix, the exchange format between integer vectors and the polytope routines.
type Matrix struct {
	rows [][]*big.Rat
	cols int
}

// NewMatrix returns a zero matrix.
func NewMatrix(numRows, numCols int) *Matrix {
	M := &Matrix{
		rows: make([][]*big.Rat, numRows),
		cols: numCols,
	}
	for i := range M.rows {
		M.rows[i] = make([]*big.Rat, numCols)
		for j := range M.rows[i] {
			M.rows[i][j] = new(big.Rat)
		}
	}
	return M
}

// FromVectors returns the matrix whose rows are the given vectors.
func FromVectors(vecs []gfan.Vector, numCols int) *Matrix {
	M := NewMatrix(len(vecs), numCols)
	for i, v := range vecs {
		for j, vj := range v {
			M.rows[i][j].SetInt64(vj)
		}
	}
	return M
}

func (M *Matrix) NumRows() int { return len(M.rows) }
func (M *Matrix) NumCols() int { return M.cols }

func (M *Matrix) At(i, j int) *big.Rat {
	return M.rows[i][j]
}

func (M *Matrix) Set(i, j int, x *big.Rat) {
	M.rows[i][j].Set(x)
}

func (M *Matrix) Clone() *Matrix {
	C := NewMatrix(len(M.rows), M.cols)
	for i, row := range M.rows {
		for j, x := range row {
			C.rows[i][j].Set(x)
		}
	}
	return C
}

// RowVector returns row i scaled to a primitive integer vector.
func (M *Matrix) RowVector(i int) gfan.Vector {
	return ratsToVector(M.rows[i])
}

// Vectors returns every row as a primitive integer vector.
func (M *Matrix) Vectors() []gfan.Vector {
	vecs := make([]gfan.Vector, len(M.rows))
	for i := range M.rows {
		vecs[i] = M.RowVector(i)
	}
	return vecs
}

// ReduceRows brings M to reduced row echelon form in place, returning the pivot column of each nonzero row.
func (M *Matrix) ReduceRows() (pivots []int) {
	tmp := new(big.Rat)
	r := 0
	for c := 0; c < M.cols && r < len(M.rows); c++ {
		p := -1
		for i := r; i < len(M.rows); i++ {
			if M.rows[i][c].Sign() != 0 {
				p = i
				break
			}
		}
		if p < 0 {
			continue
		}
		M.rows[r], M.rows[p] = M.rows[p], M.rows[r]

		inv := new(big.Rat).Inv(M.rows[r][c])
		for j := c; j < M.cols; j++ {
			M.rows[r][j].Mul(M.rows[r][j], inv)
		}
		for i := range M.rows {
			if i == r || M.rows[i][c].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(M.rows[i][c])
			for j := c; j < M.cols; j++ {
				tmp.Mul(f, M.rows[r][j])
				M.rows[i][j].Sub(M.rows[i][j], tmp)
			}
		}
		pivots = append(pivots, c)
		r++
	}
	return pivots
}

// Rank returns the dimension of the span of vecs in Q^n.
func Rank(vecs []gfan.Vector, n int) int {
	if len(vecs) == 0 {
		return 0
	}
	return len(FromVectors(vecs, n).ReduceRows())
}

// Kernel returns a basis of primitive integer vectors for {x : v·x = 0 for all v in vecs}.
func Kernel(vecs []gfan.Vector, n int) []gfan.Vector {
	M := FromVectors(vecs, n)
	pivots := M.ReduceRows()

	isPivot := make([]bool, n)
	for _, c := range pivots {
		isPivot[c] = true
	}

	var basis []gfan.Vector
	for f := 0; f < n; f++ {
		if isPivot[f] {
			continue
		}
		x := make([]*big.Rat, n)
		for j := range x {
			x[j] = new(big.Rat)
		}
		x[f].SetInt64(1)
		for r, c := range pivots {
			x[c].Neg(M.rows[r][f])
		}
		basis = append(basis, ratsToVector(x))
	}
	return basis
}

// Project returns v minus its orthogonal projection onto span(basis), scaled to a primitive integer vector.
// The basis vectors must be linearly independent.
func Project(v gfan.Vector, basis []gfan.Vector) gfan.Vector {
	k := len(basis)
	if k == 0 {
		return v.Normalize()
	}

	// Solve (L L^T) c = L v
	aug := NewMatrix(k, k+1)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			aug.rows[i][j].SetInt64(basis[i].Dot(basis[j]))
		}
		aug.rows[i][k].SetInt64(basis[i].Dot(v))
	}
	aug.ReduceRows()

	n := len(v)
	out := make([]*big.Rat, n)
	tmp := new(big.Rat)
	for j := 0; j < n; j++ {
		out[j] = new(big.Rat).SetInt64(v[j])
		for i := 0; i < k; i++ {
			tmp.SetInt64(basis[i][j])
			tmp.Mul(tmp, aug.rows[i][k])
			out[j].Sub(out[j], tmp)
		}
	}
	return ratsToVector(out)
}

// ratsToVector clears denominators and divides out the gcd.
func ratsToVector(x []*big.Rat) gfan.Vector {
	lcm := big.NewInt(1)
	g := new(big.Int)
	for _, xi := range x {
		d := xi.Denom()
		g.GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, d)
		lcm.Quo(lcm, g)
	}

	ints := make([]*big.Int, len(x))
	content := new(big.Int)
	for i, xi := range x {
		n := new(big.Int).Mul(xi.Num(), lcm)
		n.Quo(n, xi.Denom())
		ints[i] = n
		content.GCD(nil, nil, content, new(big.Int).Abs(n))
	}

	v := make(gfan.Vector, len(x))
	for i, n := range ints {
		if content.Sign() != 0 {
			n.Quo(n, content)
		}
		if !n.IsInt64() {
			panic("polytope: vector entry overflows int64")
		}
		v[i] = n.Int64()
	}
	return v
}
