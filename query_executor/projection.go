package executor

import (
	"SlotDB/storage_engine/access"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"

	"github.com/pkg/errors"
)

/*
Relational operators. Each one reads from row stores through the cursor
contract and writes its result into out with Insert; out must already carry
a schema matching the result (see the *Schema helpers).
*/

var (
	ErrNoFields     = errors.New("no fields selected")
	ErrBadOperator  = errors.New("unknown operator")
	ErrNonNumeric   = errors.New("aggregate needs a numeric field")
	ErrOutputSchema = errors.New("output schema does not match result")
)

// Projection copies the named fields of every row of in, in the given order.
func Projection(in, out access.RowStore, fieldNames []string) error {
	idx, err := fieldIndexes(in.Schema(), fieldNames)
	if err != nil {
		return errors.Wrap(err, "projection")
	}
	return access.Scan(in, func(_ access.Cursor, row types.Row) error {
		fields := make([]types.Field, len(idx))
		for i, j := range idx {
			fields[i] = row.Field(j)
		}
		return insert(out, types.NewRow(fields...))
	})
}

// ProjectionSchema is the schema of Projection(in, _, fieldNames).
func ProjectionSchema(in *tuple.Descriptor, fieldNames []string) (*tuple.Descriptor, error) {
	idx, err := fieldIndexes(in, fieldNames)
	if err != nil {
		return nil, err
	}
	ts := make([]types.FieldType, len(idx))
	for i, j := range idx {
		ts[i] = in.TypeOf(j)
	}
	return tuple.NewDescriptor(ts, fieldNames)
}

func fieldIndexes(d *tuple.Descriptor, names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, types.PreconditionError("fieldIndexes", ErrNoFields)
	}
	idx := make([]int, len(names))
	for i, n := range names {
		j, err := d.IndexOf(n)
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}
	return idx, nil
}

func insert(out access.RowStore, row types.Row) error {
	if !out.Schema().Compatible(row) {
		return types.PreconditionError("insert",
			errors.Wrapf(ErrOutputSchema, "%s into %q", row, out.Name()))
	}
	return out.Insert(row)
}
