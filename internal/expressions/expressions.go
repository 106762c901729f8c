// Package expressions is a small typed expression tree whose canonical
// string form binds scene properties to runtime formulas, for example
// "my.Position - my.Size / 2".
//
// Expressions are immutable. Construction with mismatched operand types
// panics: every expression is built by the translator, never from input.
package expressions

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
)

// Type is the statically inferred result type of an expression.
type Type int

const (
	Scalar Type = iota
	Vector2
	Vector3
	Matrix3x2
	Boolean
)

func (t Type) String() string {
	switch t {
	case Scalar:
		return "Scalar"
	case Vector2:
		return "Vector2"
	case Vector3:
		return "Vector3"
	case Matrix3x2:
		return "Matrix3x2"
	case Boolean:
		return "Boolean"
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Channels returns the component names of a vector type.
func (t Type) Channels() []string {
	switch t {
	case Vector2:
		return []string{"X", "Y"}
	case Vector3:
		return []string{"X", "Y", "Z"}
	case Matrix3x2:
		return []string{"M11", "M12", "M21", "M22", "M31", "M32"}
	}
	return nil
}

type op int

const (
	opConstant op = iota
	opBool
	opProperty
	opVector
	opAdd
	opSubtract
	opMultiply
	opDivide
	opNegate
	opMin
	opMax
	opTernary
	opLess
	opLessOrEqual
	opGreater
	opGreaterOrEqual
	opEqual
	opAnd
	opOr
)

var symbols = map[op]string{
	opAdd:            "+",
	opSubtract:       "-",
	opMultiply:       "*",
	opDivide:         "/",
	opLess:           "<",
	opLessOrEqual:    "<=",
	opGreater:        ">",
	opGreaterOrEqual: ">=",
	opEqual:          "==",
	opAnd:            "&&",
	opOr:             "||",
}

const (
	precTernary = iota + 1
	precOr
	precAnd
	precCompare
	precAdd
	precMultiply
	precUnary
	precAtom
)

// Expr is a node of the expression tree.
type Expr struct {
	op    op
	typ   Type
	value float64
	name  string
	args  []*Expr

	simplified atomic.Pointer[Expr]
}

// Type returns the result type.
func (e *Expr) Type() Type { return e.typ }

// IsConstant reports whether e is a numeric literal.
func (e *Expr) IsConstant() bool { return e.op == opConstant }

// Value returns the value of a numeric literal.
func (e *Expr) Value() float64 {
	if e.op != opConstant {
		panic("expressions: Value of non-constant " + e.String())
	}
	return e.value
}

// Number is a scalar literal.
func Number(v float64) *Expr { return &Expr{op: opConstant, typ: Scalar, value: v} }

// Bool is a boolean literal.
func Bool(b bool) *Expr {
	v := 0.0
	if b {
		v = 1
	}
	return &Expr{op: opBool, typ: Boolean, value: v}
}

// Property references a named property of a reference parameter, for
// example Property("my", "Position", Vector2) is "my.Position".
func Property(owner, name string, t Type) *Expr {
	return &Expr{op: opProperty, typ: t, name: owner + "." + name}
}

// Vec2 builds a Vector2 from scalar components.
func Vec2(x, y *Expr) *Expr { return vector(Vector2, x, y) }

// Vec3 builds a Vector3 from scalar components.
func Vec3(x, y, z *Expr) *Expr { return vector(Vector3, x, y, z) }

// ConstVec2 is a Vector2 literal.
func ConstVec2(x, y float64) *Expr { return Vec2(Number(x), Number(y)) }

// Matrix builds a Matrix3x2 from its six scalar elements.
func Matrix(m11, m12, m21, m22, m31, m32 *Expr) *Expr {
	return vector(Matrix3x2, m11, m12, m21, m22, m31, m32)
}

func vector(t Type, comps ...*Expr) *Expr {
	for _, c := range comps {
		mustBe(c, Scalar, t.String())
	}
	return &Expr{op: opVector, typ: t, args: comps}
}

func mustBe(e *Expr, t Type, context string) {
	if e.typ != t {
		panic(fmt.Sprintf("expressions: %s requires %s operand, got %s (%s)", context, t, e.typ, e))
	}
}

func isVector(t Type) bool { return t == Vector2 || t == Vector3 }

func Add(a, b *Expr) *Expr {
	if a.typ != b.typ || (a.typ != Scalar && !isVector(a.typ)) {
		panic(fmt.Sprintf("expressions: cannot add %s and %s", a.typ, b.typ))
	}
	return &Expr{op: opAdd, typ: a.typ, args: []*Expr{a, b}}
}

func Subtract(a, b *Expr) *Expr {
	if a.typ != b.typ || (a.typ != Scalar && !isVector(a.typ)) {
		panic(fmt.Sprintf("expressions: cannot subtract %s from %s", b.typ, a.typ))
	}
	return &Expr{op: opSubtract, typ: a.typ, args: []*Expr{a, b}}
}

// Multiply allows scalar products, vector scaling and component-wise vector
// products.
func Multiply(a, b *Expr) *Expr {
	t, ok := productType(a.typ, b.typ)
	if !ok {
		panic(fmt.Sprintf("expressions: cannot multiply %s by %s", a.typ, b.typ))
	}
	return &Expr{op: opMultiply, typ: t, args: []*Expr{a, b}}
}

// Divide allows scalar division, vector-by-scalar and component-wise
// vector division.
func Divide(a, b *Expr) *Expr {
	if b.typ != Scalar && b.typ != a.typ {
		panic(fmt.Sprintf("expressions: cannot divide %s by %s", a.typ, b.typ))
	}
	if a.typ != Scalar && !isVector(a.typ) {
		panic(fmt.Sprintf("expressions: cannot divide %s", a.typ))
	}
	return &Expr{op: opDivide, typ: a.typ, args: []*Expr{a, b}}
}

func productType(a, b Type) (Type, bool) {
	switch {
	case a == Scalar && b == Scalar:
		return Scalar, true
	case isVector(a) && (b == Scalar || b == a):
		return a, true
	case a == Scalar && isVector(b):
		return b, true
	case a == Matrix3x2 && b == Matrix3x2:
		return Matrix3x2, true
	}
	return 0, false
}

func Negate(a *Expr) *Expr {
	if a.typ != Scalar && !isVector(a.typ) {
		panic("expressions: cannot negate " + a.typ.String())
	}
	return &Expr{op: opNegate, typ: a.typ, args: []*Expr{a}}
}

func Min(a, b *Expr) *Expr {
	mustBe(a, Scalar, "Min")
	mustBe(b, Scalar, "Min")
	return &Expr{op: opMin, typ: Scalar, args: []*Expr{a, b}}
}

func Max(a, b *Expr) *Expr {
	mustBe(a, Scalar, "Max")
	mustBe(b, Scalar, "Max")
	return &Expr{op: opMax, typ: Scalar, args: []*Expr{a, b}}
}

// Ternary is cond ? a : b.
func Ternary(cond, a, b *Expr) *Expr {
	mustBe(cond, Boolean, "Ternary condition")
	if a.typ != b.typ {
		panic(fmt.Sprintf("expressions: ternary branches differ: %s and %s", a.typ, b.typ))
	}
	return &Expr{op: opTernary, typ: a.typ, args: []*Expr{cond, a, b}}
}

func compare(o op, a, b *Expr) *Expr {
	mustBe(a, Scalar, symbols[o])
	mustBe(b, Scalar, symbols[o])
	return &Expr{op: o, typ: Boolean, args: []*Expr{a, b}}
}

func Less(a, b *Expr) *Expr           { return compare(opLess, a, b) }
func LessOrEqual(a, b *Expr) *Expr    { return compare(opLessOrEqual, a, b) }
func Greater(a, b *Expr) *Expr        { return compare(opGreater, a, b) }
func GreaterOrEqual(a, b *Expr) *Expr { return compare(opGreaterOrEqual, a, b) }
func Equal(a, b *Expr) *Expr          { return compare(opEqual, a, b) }

func And(a, b *Expr) *Expr {
	mustBe(a, Boolean, "&&")
	mustBe(b, Boolean, "&&")
	return &Expr{op: opAnd, typ: Boolean, args: []*Expr{a, b}}
}

func Or(a, b *Expr) *Expr {
	mustBe(a, Boolean, "||")
	mustBe(b, Boolean, "||")
	return &Expr{op: opOr, typ: Boolean, args: []*Expr{a, b}}
}

// Channel returns the scalar expression for one component of a vector or
// matrix expression. Property references become channel references
// ("my.Position.X"); operators are pushed down to their operands.
func Channel(e *Expr, ch string) *Expr {
	index := -1
	for i, c := range e.typ.Channels() {
		if c == ch {
			index = i
		}
	}
	if index < 0 {
		panic(fmt.Sprintf("expressions: %s has no channel %q", e.typ, ch))
	}
	return channel(e, ch, index)
}

func channel(e *Expr, ch string, index int) *Expr {
	if e.typ == Scalar {
		return e
	}
	switch e.op {
	case opProperty:
		return Property(e.name, ch, Scalar)
	case opVector:
		return e.args[index]
	case opAdd:
		return Add(channel(e.args[0], ch, index), channel(e.args[1], ch, index))
	case opSubtract:
		return Subtract(channel(e.args[0], ch, index), channel(e.args[1], ch, index))
	case opMultiply:
		if e.typ == Matrix3x2 {
			break
		}
		return Multiply(channel(e.args[0], ch, index), channel(e.args[1], ch, index))
	case opDivide:
		return Divide(channel(e.args[0], ch, index), channel(e.args[1], ch, index))
	case opNegate:
		return Negate(channel(e.args[0], ch, index))
	case opTernary:
		return Ternary(e.args[0], channel(e.args[1], ch, index), channel(e.args[2], ch, index))
	}
	panic(fmt.Sprintf("expressions: cannot take channel %s of %s", ch, e))
}

// References returns the distinct property references of e in the order
// they first appear.
func References(e *Expr) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(*Expr)
	walk = func(n *Expr) {
		if n.op == opProperty && !seen[n.name] {
			seen[n.name] = true
			out = append(out, n.name)
		}
		for _, a := range n.args {
			walk(a)
		}
	}
	walk(e)
	return out
}

// Owners returns the distinct reference parameter names used by e.
func Owners(e *Expr) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range References(e) {
		owner, _, _ := strings.Cut(r, ".")
		if !seen[owner] {
			seen[owner] = true
			out = append(out, owner)
		}
	}
	return out
}

func (e *Expr) precedence() int {
	switch e.op {
	case opConstant:
		if e.value < 0 || math.Signbit(e.value) {
			return precUnary
		}
		return precAtom
	case opAdd, opSubtract:
		return precAdd
	case opMultiply, opDivide:
		return precMultiply
	case opNegate:
		return precUnary
	case opTernary:
		return precTernary
	case opLess, opLessOrEqual, opGreater, opGreaterOrEqual, opEqual:
		return precCompare
	case opAnd:
		return precAnd
	case opOr:
		return precOr
	}
	return precAtom
}

// String returns the canonical form with the minimum of parentheses.
func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	switch e.op {
	case opConstant:
		b.WriteString(FormatNumber(e.value))
	case opBool:
		if e.value != 0 {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case opProperty:
		b.WriteString(e.name)
	case opVector:
		b.WriteString(e.typ.String())
		writeArgs(b, e.args)
	case opMin:
		b.WriteString("Min")
		writeArgs(b, e.args)
	case opMax:
		b.WriteString("Max")
		writeArgs(b, e.args)
	case opNegate:
		b.WriteByte('-')
		e.writeOperand(b, e.args[0], e.args[0].precedence() < precAtom)
	case opTernary:
		e.writeOperand(b, e.args[0], e.args[0].precedence() <= precTernary)
		b.WriteString(" ? ")
		e.writeOperand(b, e.args[1], e.args[1].precedence() <= precTernary)
		b.WriteString(" : ")
		e.writeOperand(b, e.args[2], e.args[2].precedence() < precTernary)
	default:
		p := e.precedence()
		l, r := e.args[0], e.args[1]
		e.writeOperand(b, l, l.precedence() < p)
		b.WriteString(" " + symbols[e.op] + " ")
		nonAssoc := e.op == opSubtract || e.op == opDivide || p == precCompare
		e.writeOperand(b, r, r.precedence() < p || (r.precedence() == p && nonAssoc) || r.precedence() == precUnary)
	}
}

func (e *Expr) writeOperand(b *strings.Builder, o *Expr, parens bool) {
	if parens {
		b.WriteByte('(')
	}
	o.write(b)
	if parens {
		b.WriteByte(')')
	}
}

func writeArgs(b *strings.Builder, args []*Expr) {
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.write(b)
	}
	b.WriteByte(')')
}

// FormatNumber renders a float in the shortest exact decimal form.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
