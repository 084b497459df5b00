package ast

// Op names a primitive operator.
type Op string

const (
	OpRead Op = "read"
	OpAdd  Op = "+"
	OpNeg  Op = "-"
)

// Arity returns the operand count of op and whether op is supported.
func (op Op) Arity() (int, bool) {
	switch op {
	case OpRead:
		return 0, true
	case OpNeg:
		return 1, true
	case OpAdd:
		return 2, true
	default:
		return 0, false
	}
}

func (op Op) Valid() bool {
	_, ok := op.Arity()
	return ok
}
