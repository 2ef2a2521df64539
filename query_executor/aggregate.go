package executor

import (
	"SlotDB/storage_engine/access"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"

	"github.com/pkg/errors"
)

// accumulator folds the values of one group.
type accumulator struct {
	key   types.Field
	count int32
	isum  int32
	dsum  float64
	best  types.Field
}

func (a *accumulator) add(op types.AggregateOp, v types.Field) {
	a.count++
	switch op {
	case types.AggSum, types.AggAvg:
		if i, ok := v.Int(); ok {
			a.isum += i
		}
		n, _ := v.Numeric()
		a.dsum += n
	case types.AggMin:
		if a.count == 1 || types.Compare(v, types.OpLT, a.best) {
			a.best = v
		}
	case types.AggMax:
		if a.count == 1 || types.Compare(v, types.OpGT, a.best) {
			a.best = v
		}
	}
}

func (a *accumulator) result(op types.AggregateOp, t types.FieldType) types.Field {
	switch op {
	case types.AggCount:
		return types.IntField(a.count)
	case types.AggSum:
		if t == types.TypeInt {
			return types.IntField(a.isum)
		}
		return types.DoubleField(a.dsum)
	case types.AggAvg:
		return types.DoubleField(a.dsum / float64(a.count))
	default:
		return a.best
	}
}

// Aggregate folds the values of agg.Field, once per distinct value of the
// group field (or once for the whole input when ungrouped). Groups are
// written in the order their key was first seen, as [key, result] or
// [result]. An empty input writes nothing.
func Aggregate(in, out access.RowStore, agg Aggregation) error {
	if _, err := aggregateType(in.Schema(), agg); err != nil {
		return errors.Wrap(err, "aggregate")
	}
	vi, _ := in.Schema().IndexOf(agg.Field)
	fieldType := in.Schema().TypeOf(vi)
	gi := -1
	if agg.Grouped() {
		gi, _ = in.Schema().IndexOf(agg.Group)
	}

	var groups []*accumulator
	byKey := make(map[types.Field]*accumulator)
	err := access.Scan(in, func(_ access.Cursor, row types.Row) error {
		var key types.Field
		if gi >= 0 {
			key = row.Field(gi)
		}
		g, ok := byKey[key]
		if !ok {
			g = &accumulator{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.add(agg.Op, row.Field(vi))
		return nil
	})
	if err != nil {
		return err
	}

	for _, g := range groups {
		res := g.result(agg.Op, fieldType)
		row := types.NewRow(res)
		if gi >= 0 {
			row = types.NewRow(g.key, res)
		}
		if err := insert(out, row); err != nil {
			return err
		}
	}
	return nil
}

// AggregateSchema is the schema of Aggregate(in, _, agg): the group field,
// if any, then a field named "<OP>(<field>)".
func AggregateSchema(in *tuple.Descriptor, agg Aggregation) (*tuple.Descriptor, error) {
	t, err := aggregateType(in, agg)
	if err != nil {
		return nil, err
	}
	name := agg.Op.String() + "(" + agg.Field + ")"
	if !agg.Grouped() {
		return tuple.NewDescriptor([]types.FieldType{t}, []string{name})
	}
	gi, _ := in.IndexOf(agg.Group)
	return tuple.NewDescriptor([]types.FieldType{in.TypeOf(gi), t}, []string{agg.Group, name})
}

// aggregateType validates agg against in and returns the result field type.
func aggregateType(in *tuple.Descriptor, agg Aggregation) (types.FieldType, error) {
	vi, err := in.IndexOf(agg.Field)
	if err != nil {
		return 0, err
	}
	if agg.Grouped() {
		if _, err := in.IndexOf(agg.Group); err != nil {
			return 0, err
		}
	}
	t := in.TypeOf(vi)
	switch agg.Op {
	case types.AggCount:
		return types.TypeInt, nil
	case types.AggSum:
		if t == types.TypeChar {
			return 0, types.PreconditionError("aggregateType", errors.Wrapf(ErrNonNumeric, "SUM(%s)", agg.Field))
		}
		return t, nil
	case types.AggAvg:
		if t == types.TypeChar {
			return 0, types.PreconditionError("aggregateType", errors.Wrapf(ErrNonNumeric, "AVG(%s)", agg.Field))
		}
		return types.TypeDouble, nil
	case types.AggMin, types.AggMax:
		return t, nil
	default:
		return 0, types.PreconditionError("aggregateType", errors.Wrap(ErrBadOperator, agg.Op.String()))
	}
}
