package executor

import "SlotDB/types"

// FilterPredicate keeps rows whose named field satisfies Op against Value.
type FilterPredicate struct {
	Field string
	Op    types.PredicateOp
	Value types.Field
}

// JoinPredicate compares a left field with a right field.
type JoinPredicate struct {
	Left  string
	Right string
	Op    types.PredicateOp
}

// Aggregation applies Op to Field, per distinct value of Group when Group is set.
type Aggregation struct {
	Field string
	Op    types.AggregateOp
	Group string
}

// Grouped reports whether the aggregate has a group field.
func (a Aggregation) Grouped() bool { return a.Group != "" }
