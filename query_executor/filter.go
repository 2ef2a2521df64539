package executor

import (
	"SlotDB/storage_engine/access"
	"SlotDB/types"

	"github.com/pkg/errors"
)

type boundPredicate struct {
	index int
	op    types.PredicateOp
	value types.Field
}

// Filter copies the rows of in that satisfy every predicate. With no
// predicates every row passes.
func Filter(in, out access.RowStore, preds []FilterPredicate) error {
	bound := make([]boundPredicate, len(preds))
	for i, p := range preds {
		if err := checkOp(p.Op); err != nil {
			return errors.Wrapf(err, "filter on %q", p.Field)
		}
		j, err := in.Schema().IndexOf(p.Field)
		if err != nil {
			return errors.Wrap(err, "filter")
		}
		bound[i] = boundPredicate{index: j, op: p.Op, value: p.Value}
	}

	return access.Scan(in, func(_ access.Cursor, row types.Row) error {
		for _, p := range bound {
			if !types.Compare(row.Field(p.index), p.op, p.value) {
				return nil
			}
		}
		return insert(out, row)
	})
}

func checkOp(op types.PredicateOp) error {
	if op < types.OpEQ || op > types.OpLE {
		return types.PreconditionError("checkOp", errors.Wrap(ErrBadOperator, op.String()))
	}
	return nil
}
