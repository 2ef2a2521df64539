package tuple

import (
	"SlotDB/types"
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

/*
Fixed-width row codec.

A Descriptor is the ordered list of (type, name) pairs of a table. Every field
has a fixed width, so a serialized row has a fixed length and each field sits
at an offset known when the descriptor is built:

	INT     int32   4 bytes  little-endian
	DOUBLE  float64 8 bytes  little-endian IEEE-754
	CHAR    text    64 bytes NUL-padded; longer strings are silently truncated

Rows carry no header and no null bitmap.
*/

var (
	ErrSchemaMismatch = errors.New("row does not match descriptor")
	ErrBadDescriptor  = errors.New("invalid descriptor")
	ErrFieldNotFound  = errors.New("field not found")
	ErrShortBuffer    = errors.New("buffer shorter than row length")
)

type Descriptor struct {
	types   []types.FieldType
	names   []string
	offsets []int
	length  int
}

// NewDescriptor fails if the lists differ in length, a name repeats or a type is unknown.
func NewDescriptor(fieldTypes []types.FieldType, names []string) (*Descriptor, error) {
	if len(fieldTypes) != len(names) {
		return nil, types.PreconditionError("NewDescriptor",
			errors.Wrapf(ErrBadDescriptor, "%d types but %d names", len(fieldTypes), len(names)))
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, types.PreconditionError("NewDescriptor",
				errors.Wrapf(ErrBadDescriptor, "duplicate field name %q", n))
		}
		seen[n] = struct{}{}
	}

	d := &Descriptor{
		types:   append([]types.FieldType(nil), fieldTypes...),
		names:   append([]string(nil), names...),
		offsets: make([]int, len(fieldTypes)),
	}
	for i, t := range fieldTypes {
		w, err := t.Width()
		if err != nil {
			return nil, types.PreconditionError("NewDescriptor", errors.Wrap(ErrBadDescriptor, err.Error()))
		}
		d.offsets[i] = d.length
		d.length += w
	}
	return d, nil
}

// FromTableDef builds a descriptor from a config table definition.
func FromTableDef(def types.TableDef) (*Descriptor, error) {
	ts := make([]types.FieldType, len(def.Columns))
	ns := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		t, err := types.ParseFieldType(c.Type)
		if err != nil {
			return nil, types.PreconditionError("FromTableDef", errors.Wrapf(err, "column %q", c.Name))
		}
		ts[i] = t
		ns[i] = c.Name
	}
	return NewDescriptor(ts, ns)
}

// Merge concatenates two descriptors, preserving field order.
func Merge(a, b *Descriptor) (*Descriptor, error) {
	ts := append(append([]types.FieldType(nil), a.types...), b.types...)
	ns := append(append([]string(nil), a.names...), b.names...)
	return NewDescriptor(ts, ns)
}

func (d *Descriptor) Size() int { return len(d.types) }

// Length is the serialized row length in bytes.
func (d *Descriptor) Length() int { return d.length }

func (d *Descriptor) Types() []types.FieldType { return append([]types.FieldType(nil), d.types...) }

func (d *Descriptor) Names() []string { return append([]string(nil), d.names...) }

func (d *Descriptor) TypeOf(i int) types.FieldType { return d.types[i] }

func (d *Descriptor) NameOf(i int) string { return d.names[i] }

func (d *Descriptor) OffsetOf(i int) (int, error) {
	if i < 0 || i >= len(d.offsets) {
		return 0, types.PreconditionError("OffsetOf", errors.Wrapf(ErrFieldNotFound, "index %d", i))
	}
	return d.offsets[i], nil
}

func (d *Descriptor) IndexOf(name string) (int, error) {
	for i, n := range d.names {
		if n == name {
			return i, nil
		}
	}
	return 0, types.PreconditionError("IndexOf", errors.Wrapf(ErrFieldNotFound, "%q", name))
}

// Compatible reports whether row has the descriptor's arity and field types.
func (d *Descriptor) Compatible(row types.Row) bool {
	if row.Len() != len(d.types) {
		return false
	}
	for i, t := range d.types {
		if row.Fields[i].Type != t {
			return false
		}
	}
	return true
}

// Serialize writes row into buf[0:Length()].
func (d *Descriptor) Serialize(buf []byte, row types.Row) error {
	if row.Len() != len(d.types) {
		return types.PreconditionError("Serialize",
			errors.Wrapf(ErrSchemaMismatch, "row has %d fields, descriptor %d", row.Len(), len(d.types)))
	}
	if len(buf) < d.length {
		return types.PreconditionError("Serialize",
			errors.Wrapf(ErrShortBuffer, "have %d, need %d", len(buf), d.length))
	}
	for i, t := range d.types {
		f := row.Fields[i]
		if f.Type != t {
			return types.PreconditionError("Serialize",
				errors.Wrapf(ErrSchemaMismatch, "field %q is %s, want %s", d.names[i], f.Type, t))
		}
		off := d.offsets[i]
		switch t {
		case types.TypeInt:
			v, _ := f.Int()
			binary.LittleEndian.PutUint32(buf[off:], uint32(v))
		case types.TypeDouble:
			v, _ := f.Double()
			binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
		case types.TypeChar:
			v, _ := f.Char()
			dst := buf[off : off+types.CharSize]
			n := copy(dst, v)
			clear(dst[n:])
		}
	}
	return nil
}

// Deserialize reads one row from buf[0:Length()].
func (d *Descriptor) Deserialize(buf []byte) (types.Row, error) {
	if len(buf) < d.length {
		return types.Row{}, types.PreconditionError("Deserialize",
			errors.Wrapf(ErrShortBuffer, "have %d, need %d", len(buf), d.length))
	}
	fields := make([]types.Field, len(d.types))
	for i, t := range d.types {
		off := d.offsets[i]
		switch t {
		case types.TypeInt:
			fields[i] = types.IntField(int32(binary.LittleEndian.Uint32(buf[off:])))
		case types.TypeDouble:
			fields[i] = types.DoubleField(math.Float64frombits(binary.LittleEndian.Uint64(buf[off:])))
		case types.TypeChar:
			raw := buf[off : off+types.CharSize]
			if n := bytes.IndexByte(raw, 0); n >= 0 {
				raw = raw[:n]
			}
			fields[i] = types.CharField(string(raw))
		}
	}
	return types.Row{Fields: fields}, nil
}
