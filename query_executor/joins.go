package executor

import (
	"SlotDB/storage_engine/access"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"

	"github.com/pkg/errors"
)

// Join is a nested-loop join: right is rescanned for every left row. An
// output row is the left row followed by the right row; under EQ the right
// join field duplicates the left one and is left out.
func Join(left, right, out access.RowStore, pred JoinPredicate) error {
	if err := checkOp(pred.Op); err != nil {
		return errors.Wrap(err, "join")
	}
	li, err := left.Schema().IndexOf(pred.Left)
	if err != nil {
		return errors.Wrap(err, "join left")
	}
	ri, err := right.Schema().IndexOf(pred.Right)
	if err != nil {
		return errors.Wrap(err, "join right")
	}
	dropRight := pred.Op == types.OpEQ

	return access.Scan(left, func(_ access.Cursor, l types.Row) error {
		return access.Scan(right, func(_ access.Cursor, r types.Row) error {
			if !types.Compare(l.Field(li), pred.Op, r.Field(ri)) {
				return nil
			}
			fields := make([]types.Field, 0, l.Len()+r.Len())
			fields = append(fields, l.Fields...)
			for i, f := range r.Fields {
				if dropRight && i == ri {
					continue
				}
				fields = append(fields, f)
			}
			return insert(out, types.NewRow(fields...))
		})
	})
}

// JoinSchema is the schema of Join(left, right, _, pred). A right field whose
// name is already taken on the left is renamed "<right file>.<field>".
func JoinSchema(left, right access.RowStore, pred JoinPredicate) (*tuple.Descriptor, error) {
	ri, err := right.Schema().IndexOf(pred.Right)
	if err != nil {
		return nil, err
	}
	ls, rs := left.Schema(), right.Schema()
	taken := make(map[string]struct{}, ls.Size())
	for _, n := range ls.Names() {
		taken[n] = struct{}{}
	}

	var ts []types.FieldType
	var ns []string
	for i := 0; i < rs.Size(); i++ {
		if pred.Op == types.OpEQ && i == ri {
			continue
		}
		name := rs.NameOf(i)
		if _, dup := taken[name]; dup {
			name = right.Name() + "." + name
		}
		ts = append(ts, rs.TypeOf(i))
		ns = append(ns, name)
	}
	rest, err := tuple.NewDescriptor(ts, ns)
	if err != nil {
		return nil, err
	}
	return tuple.Merge(ls, rest)
}
