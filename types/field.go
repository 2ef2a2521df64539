package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FieldType is the declared type of one column.
type FieldType uint8

const (
	TypeInt FieldType = iota + 1
	TypeDouble
	TypeChar
)

// Fixed on-disk widths per type, in bytes.
const (
	IntSize    = 4
	DoubleSize = 8
	CharSize   = 64
)

var ErrUnknownType = errors.New("unknown field type")

func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeDouble:
		return "double"
	case TypeChar:
		return "char"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Width is the fixed number of bytes a value of this type occupies in a row.
func (t FieldType) Width() (int, error) {
	switch t {
	case TypeInt:
		return IntSize, nil
	case TypeDouble:
		return DoubleSize, nil
	case TypeChar:
		return CharSize, nil
	default:
		return 0, errors.Wrapf(ErrUnknownType, "%d", uint8(t))
	}
}

// ParseFieldType accepts the names used in config files and on the command line.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "int32":
		return TypeInt, nil
	case "double", "float", "float64":
		return TypeDouble, nil
	case "char", "text", "string", "varchar":
		return TypeChar, nil
	default:
		return 0, errors.Wrapf(ErrUnknownType, "%q", s)
	}
}

// Field is a closed variant over the three column types. Only the member
// matching Type is meaningful.
type Field struct {
	Type FieldType
	i    int32
	d    float64
	s    string
}

func IntField(v int32) Field { return Field{Type: TypeInt, i: v} }

func DoubleField(v float64) Field { return Field{Type: TypeDouble, d: v} }

func CharField(v string) Field { return Field{Type: TypeChar, s: v} }

// Int returns the value of an INT field; ok is false for any other type.
func (f Field) Int() (int32, bool) { return f.i, f.Type == TypeInt }

func (f Field) Double() (float64, bool) { return f.d, f.Type == TypeDouble }

func (f Field) Char() (string, bool) { return f.s, f.Type == TypeChar }

// Numeric widens INT and DOUBLE to float64.
func (f Field) Numeric() (float64, bool) {
	switch f.Type {
	case TypeInt:
		return float64(f.i), true
	case TypeDouble:
		return f.d, true
	default:
		return 0, false
	}
}

func (f Field) String() string {
	switch f.Type {
	case TypeInt:
		return strconv.FormatInt(int64(f.i), 10)
	case TypeDouble:
		return strconv.FormatFloat(f.d, 'g', -1, 64)
	case TypeChar:
		return f.s
	default:
		return "<invalid>"
	}
}

// ParseField converts text into a field of the given type.
func ParseField(t FieldType, s string) (Field, error) {
	s = strings.TrimSpace(s)
	switch t {
	case TypeInt:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Field{}, errors.Wrapf(err, "parse int %q", s)
		}
		return IntField(int32(v)), nil
	case TypeDouble:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Field{}, errors.Wrapf(err, "parse double %q", s)
		}
		return DoubleField(v), nil
	case TypeChar:
		return CharField(s), nil
	default:
		return Field{}, errors.Wrapf(ErrUnknownType, "%d", uint8(t))
	}
}
