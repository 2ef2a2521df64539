package types

import "fmt"

// PredicateOp is a comparison between two field values.
type PredicateOp byte

const (
	OpEQ PredicateOp = iota + 1
	OpNE
	OpGT
	OpGE
	OpLT
	OpLE
)

func (op PredicateOp) String() string {
	switch op {
	case OpEQ:
		return "="
	case OpNE:
		return "!="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	default:
		return fmt.Sprintf("op(%d)", byte(op))
	}
}

// AggregateOp is one of the group aggregation functions.
type AggregateOp byte

const (
	AggCount AggregateOp = iota + 1
	AggSum
	AggAvg
	AggMin
	AggMax
)

func (op AggregateOp) String() string {
	switch op {
	case AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	default:
		return fmt.Sprintf("agg(%d)", byte(op))
	}
}

func compareOrdered[T int32 | float64 | string](lhs T, op PredicateOp, rhs T) bool {
	switch op {
	case OpEQ:
		return lhs == rhs
	case OpNE:
		return lhs != rhs
	case OpGT:
		return lhs > rhs
	case OpGE:
		return lhs >= rhs
	case OpLT:
		return lhs < rhs
	case OpLE:
		return lhs <= rhs
	}
	return false
}

// Compare evaluates lhs op rhs. Values of different types never match,
// not even under NE.
func Compare(lhs Field, op PredicateOp, rhs Field) bool {
	if lhs.Type != rhs.Type {
		return false
	}
	switch lhs.Type {
	case TypeInt:
		return compareOrdered(lhs.i, op, rhs.i)
	case TypeDouble:
		return compareOrdered(lhs.d, op, rhs.d)
	case TypeChar:
		return compareOrdered(lhs.s, op, rhs.s)
	}
	return false
}

// Less orders two fields of the same type. Mixed types order by type tag.
func Less(a, b Field) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return Compare(a, OpLT, b)
}
