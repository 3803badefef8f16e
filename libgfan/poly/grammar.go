package poly

import (
	"math/big"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/2x3systems/gfan/gfan"
)

// IdealExpr is a comma separated list of polynomials, e.g. "x^2 - y, y^2 - x".
type IdealExpr struct {
	Polys []*PolyExpr `@@ ("," @@)*`
}

type PolyExpr struct {
	Lead *TermExpr     `@@`
	Tail []*SignedTerm `@@*`
}

type SignedTerm struct {
	Sign string    `@("+" | "-")`
	Term *TermExpr `@@`
}

type TermExpr struct {
	Neg     bool          `@"-"?`
	Factors []*FactorExpr `@@ ("*" @@)*`
}

type FactorExpr struct {
	Num *string `  @Int`
	Den *string `  ("/" @Int)?`
	Var *string `| @Ident`
	Pow *int64  `  ("^" @Int)?`
}

var sPolyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[-+*/^,]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var parseIdealExpr = participle.MustBuild[IdealExpr](
	participle.Lexer(sPolyLexer),
	participle.Elide("Whitespace"),
)

// ParseIdeal parses a comma separated list of polynomials.
//
// If vars is empty, the ring's variables are the identifiers of src in order of first appearance.
func ParseIdeal(src string, vars []string) (*Ideal, error) {
	expr, err := parseIdealExpr.ParseString("", src)
	if err != nil {
		return nil, errors.Wrap(gfan.ErrInput, err.Error())
	}

	if len(vars) == 0 {
		vars = expr.identifiers()
	}
	R := NewRing(vars...)

	varIndex := make(map[string]int, len(vars))
	for i, v := range vars {
		varIndex[v] = i
	}

	gens := make([]*Poly, 0, len(expr.Polys))
	for pi, pe := range expr.Polys {
		P, err := pe.build(varIndex, len(vars))
		if err != nil {
			return nil, errors.Wrapf(err, "polynomial #%d", pi+1)
		}
		gens = append(gens, P)
	}

	return NewIdeal(R, gens...)
}

// MustParseIdeal is ParseIdeal for known-good input.
func MustParseIdeal(src string, vars ...string) *Ideal {
	I, err := ParseIdeal(src, vars)
	if err != nil {
		panic(err)
	}
	return I
}

func (expr *IdealExpr) identifiers() []string {
	var vars []string
	seen := map[string]bool{}
	for _, pe := range expr.Polys {
		terms := []*TermExpr{pe.Lead}
		for _, st := range pe.Tail {
			terms = append(terms, st.Term)
		}
		for _, te := range terms {
			for _, fe := range te.Factors {
				if fe.Var != nil && !seen[*fe.Var] {
					seen[*fe.Var] = true
					vars = append(vars, *fe.Var)
				}
			}
		}
	}
	return vars
}

func (pe *PolyExpr) build(varIndex map[string]int, numVars int) (*Poly, error) {
	terms := make([]Term, 0, 1+len(pe.Tail))

	t, err := pe.Lead.build(varIndex, numVars)
	if err != nil {
		return nil, err
	}
	terms = append(terms, t)

	for _, st := range pe.Tail {
		t, err := st.Term.build(varIndex, numVars)
		if err != nil {
			return nil, err
		}
		if st.Sign == "-" {
			t.Coef.Neg(t.Coef)
		}
		terms = append(terms, t)
	}
	return NewPoly(terms...), nil
}

func (te *TermExpr) build(varIndex map[string]int, numVars int) (Term, error) {
	t := Term{
		Coef: big.NewRat(1, 1),
		Exp:  gfan.NewVector(numVars),
	}
	if te.Neg {
		t.Coef.Neg(t.Coef)
	}

	for _, fe := range te.Factors {
		switch {
		case fe.Num != nil:
			c, ok := new(big.Rat).SetString(*fe.Num)
			if !ok {
				return t, errors.Wrapf(gfan.ErrInput, "bad coefficient %q", *fe.Num)
			}
			if fe.Den != nil {
				d, ok := new(big.Rat).SetString(*fe.Den)
				if !ok || d.Sign() == 0 {
					return t, errors.Wrapf(gfan.ErrInput, "bad denominator %q", *fe.Den)
				}
				c.Quo(c, d)
			}
			t.Coef.Mul(t.Coef, c)

		case fe.Var != nil:
			vi, ok := varIndex[*fe.Var]
			if !ok {
				return t, errors.Wrapf(gfan.ErrRingMismatch, "unknown variable %q", *fe.Var)
			}
			pow := int64(1)
			if fe.Pow != nil {
				pow = *fe.Pow
			}
			t.Exp[vi] += pow
		}
	}
	return t, nil
}
