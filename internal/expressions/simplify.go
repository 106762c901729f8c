package expressions

import "math"

// Simplified returns an equivalent expression with constants folded and
// identity operations removed. The result is computed once per node.
func (e *Expr) Simplified() *Expr {
	if s := e.simplified.Load(); s != nil {
		return s
	}
	s := e.simplify()
	s.simplified.Store(s)
	e.simplified.Store(s)
	return s
}

func isNumber(e *Expr, v float64) bool { return e.op == opConstant && e.value == v }

func (e *Expr) simplify() *Expr {
	switch e.op {
	case opConstant, opBool, opProperty:
		return e
	}

	args := make([]*Expr, len(e.args))
	changed := false
	for i, a := range e.args {
		args[i] = a.Simplified()
		changed = changed || args[i] != a
	}
	rebuilt := e
	if changed {
		rebuilt = &Expr{op: e.op, typ: e.typ, value: e.value, name: e.name, args: args}
	}

	switch e.op {
	case opAdd:
		a, b := args[0], args[1]
		switch {
		case a.IsConstant() && b.IsConstant():
			return Number(a.value + b.value)
		case isNumber(a, 0):
			return b
		case isNumber(b, 0):
			return a
		case a.op == opVector && b.op == opVector:
			return componentwise(a, b, Add)
		}
	case opSubtract:
		a, b := args[0], args[1]
		switch {
		case a.IsConstant() && b.IsConstant():
			return Number(a.value - b.value)
		case isNumber(b, 0):
			return a
		case isNumber(a, 0):
			return Negate(b).Simplified()
		case a.op == opVector && b.op == opVector:
			return componentwise(a, b, Subtract)
		}
	case opMultiply:
		a, b := args[0], args[1]
		switch {
		case a.IsConstant() && b.IsConstant():
			return Number(a.value * b.value)
		case isNumber(a, 1):
			return b
		case isNumber(b, 1):
			return a
		case e.typ == Scalar && (isNumber(a, 0) || isNumber(b, 0)):
			return Number(0)
		case a.op == opVector && b.typ == Scalar:
			return scaleComponents(a, b, Multiply)
		case b.op == opVector && a.typ == Scalar:
			return scaleComponents(b, a, func(x, s *Expr) *Expr { return Multiply(s, x) })
		}
	case opDivide:
		a, b := args[0], args[1]
		switch {
		case a.IsConstant() && b.IsConstant() && b.value != 0:
			return Number(a.value / b.value)
		case isNumber(b, 1):
			return a
		case a.op == opVector && b.typ == Scalar:
			return scaleComponents(a, b, Divide)
		}
	case opNegate:
		a := args[0]
		switch {
		case a.IsConstant():
			return Number(-a.value)
		case a.op == opNegate:
			return a.args[0]
		}
	case opMin:
		if args[0].IsConstant() && args[1].IsConstant() {
			return Number(math.Min(args[0].value, args[1].value))
		}
	case opMax:
		if args[0].IsConstant() && args[1].IsConstant() {
			return Number(math.Max(args[0].value, args[1].value))
		}
	case opTernary:
		if args[0].op == opBool {
			if args[0].value != 0 {
				return args[1]
			}
			return args[2]
		}
	case opLess, opLessOrEqual, opGreater, opGreaterOrEqual, opEqual:
		a, b := args[0], args[1]
		if a.IsConstant() && b.IsConstant() {
			return Bool(compareNumbers(e.op, a.value, b.value))
		}
	case opAnd:
		a, b := args[0], args[1]
		switch {
		case a.op == opBool && a.value == 0, b.op == opBool && b.value == 0:
			return Bool(false)
		case a.op == opBool:
			return b
		case b.op == opBool:
			return a
		}
	case opOr:
		a, b := args[0], args[1]
		switch {
		case a.op == opBool && a.value != 0, b.op == opBool && b.value != 0:
			return Bool(true)
		case a.op == opBool:
			return b
		case b.op == opBool:
			return a
		}
	}
	return rebuilt
}

func compareNumbers(o op, a, b float64) bool {
	switch o {
	case opLess:
		return a < b
	case opLessOrEqual:
		return a <= b
	case opGreater:
		return a > b
	case opGreaterOrEqual:
		return a >= b
	}
	return a == b
}

func componentwise(a, b *Expr, f func(x, y *Expr) *Expr) *Expr {
	comps := make([]*Expr, len(a.args))
	for i := range a.args {
		comps[i] = f(a.args[i], b.args[i]).Simplified()
	}
	return vector(a.typ, comps...)
}

func scaleComponents(v, s *Expr, f func(x, s *Expr) *Expr) *Expr {
	comps := make([]*Expr, len(v.args))
	for i := range v.args {
		comps[i] = f(v.args[i], s).Simplified()
	}
	return vector(v.typ, comps...)
}
