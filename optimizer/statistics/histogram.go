package statistics

import (
	"SlotDB/storage_engine/access"
	"SlotDB/types"
	"math"

	"github.com/pkg/errors"
)

// ColumnStats is an equi-width histogram over the integer range [min, max).
// Values outside the range are not counted.
type ColumnStats struct {
	min, max int64
	width    int64
	counts   []uint64
	total    uint64
}

var (
	ErrBadHistogram = errors.New("invalid histogram bounds")
	ErrNotInt       = errors.New("histogram column must be INT")
)

// NewColumnStats splits [min, max) into buckets of width
// ceil((max-min)/buckets).
func NewColumnStats(buckets int, min, max int32) (*ColumnStats, error) {
	if buckets <= 0 {
		return nil, types.PreconditionError("NewColumnStats", errors.Wrapf(ErrBadHistogram, "%d buckets", buckets))
	}
	if min >= max {
		return nil, types.PreconditionError("NewColumnStats", errors.Wrapf(ErrBadHistogram, "min %d >= max %d", min, max))
	}
	span := int64(max) - int64(min)
	b := int64(buckets)
	return &ColumnStats{
		min:    int64(min),
		max:    int64(max),
		width:  (span + b - 1) / b,
		counts: make([]uint64, buckets),
	}, nil
}

// Build scans the INT column field of rs into a histogram spanning the
// column's observed values.
func Build(rs access.RowStore, field string, buckets int) (*ColumnStats, error) {
	idx, err := rs.Schema().IndexOf(field)
	if err != nil {
		return nil, err
	}
	if rs.Schema().TypeOf(idx) != types.TypeInt {
		return nil, types.PreconditionError("Build", errors.Wrapf(ErrNotInt, "%q", field))
	}

	var vals []int32
	err = access.Scan(rs, func(_ access.Cursor, row types.Row) error {
		v, _ := row.Field(idx).Int()
		vals = append(vals, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	lo, top := int32(0), int32(0)
	for i, v := range vals {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > top {
			top = v
		}
	}
	// max is exclusive; math.MaxInt32 itself is never counted
	hi := top
	if top < math.MaxInt32 {
		hi = top + 1
	}
	cs, err := NewColumnStats(buckets, lo, hi)
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		cs.AddValue(v)
	}
	return cs, nil
}

func (cs *ColumnStats) AddValue(v int32) {
	x := int64(v)
	if x < cs.min || x >= cs.max {
		return
	}
	cs.counts[cs.bucket(x)]++
	cs.total++
}

func (cs *ColumnStats) Total() uint64 { return cs.total }

// Buckets returns a copy of the per-bucket counts.
func (cs *ColumnStats) Buckets() []uint64 { return append([]uint64(nil), cs.counts...) }

func (cs *ColumnStats) BucketWidth() int64 { return cs.width }

func (cs *ColumnStats) bucket(x int64) int { return int((x - cs.min) / cs.width) }

// EstimateCardinality estimates how many added values satisfy "value op v",
// assuming values are spread evenly inside each bucket.
func (cs *ColumnStats) EstimateCardinality(op types.PredicateOp, v int32) uint64 {
	if cs.total == 0 {
		return 0
	}
	x := int64(v)
	w := float64(cs.width)

	switch op {
	case types.OpEQ:
		if x < cs.min || x >= cs.max {
			return 0
		}
		return uint64(float64(cs.counts[cs.bucket(x)]) / w)

	case types.OpGT:
		if x >= cs.max {
			return 0
		}
		if x < cs.min {
			return cs.total
		}
		b := cs.bucket(x)
		right := cs.min + int64(b+1)*cs.width - 1
		return uint64(float64(right-x)/w*float64(cs.counts[b])) + cs.sum(b+1, len(cs.counts))

	case types.OpGE:
		if x >= cs.max {
			return 0
		}
		if x < cs.min {
			return cs.total
		}
		b := cs.bucket(x)
		right := cs.min + int64(b+1)*cs.width - 1
		return uint64(float64(right-x+1)/w*float64(cs.counts[b])) + cs.sum(b+1, len(cs.counts))

	case types.OpLT:
		if x <= cs.min {
			return 0
		}
		if x >= cs.max {
			return cs.total
		}
		b := cs.bucket(x)
		left := cs.min + int64(b)*cs.width
		return uint64(float64(x-left)/w*float64(cs.counts[b])) + cs.sum(0, b)

	case types.OpLE:
		return cs.EstimateCardinality(types.OpEQ, v) + cs.EstimateCardinality(types.OpLT, v)

	case types.OpNE:
		return cs.total - cs.EstimateCardinality(types.OpEQ, v)
	}
	return 0
}

// Selectivity is EstimateCardinality as a fraction of the values added, or 0
// when nothing was added.
func (cs *ColumnStats) Selectivity(op types.PredicateOp, v int32) float64 {
	if cs.total == 0 {
		return 0
	}
	return float64(cs.EstimateCardinality(op, v)) / float64(cs.total)
}

func (cs *ColumnStats) sum(from, to int) uint64 {
	var n uint64
	for _, c := range cs.counts[from:to] {
		n += c
	}
	return n
}
