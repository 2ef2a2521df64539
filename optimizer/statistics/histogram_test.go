package statistics

import (
	"SlotDB/config"
	storageengine "SlotDB/storage_engine"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(t *testing.T) *ColumnStats {
	cs, err := NewColumnStats(10, 0, 100)
	require.NoError(t, err)
	for v := int32(0); v < 100; v++ {
		cs.AddValue(v)
	}
	return cs
}

func TestNewColumnStatsRejectsBadBounds(t *testing.T) {
	_, err := NewColumnStats(0, 0, 10)
	assert.True(t, types.IsPrecondition(err))
	assert.ErrorIs(t, err, ErrBadHistogram)

	_, err = NewColumnStats(4, 10, 10)
	assert.ErrorIs(t, err, ErrBadHistogram)
	_, err = NewColumnStats(4, 11, 10)
	assert.ErrorIs(t, err, ErrBadHistogram)
}

func TestBucketWidthRoundsUp(t *testing.T) {
	cs, err := NewColumnStats(3, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), cs.BucketWidth())

	cs.AddValue(9)
	cs.AddValue(10)
	cs.AddValue(-1)
	cs.AddValue(0)
	assert.Equal(t, []uint64{1, 0, 1}, cs.Buckets())
	assert.Equal(t, uint64(2), cs.Total())
}

func TestEstimateCardinality(t *testing.T) {
	cs := uniform(t)

	tests := []struct {
		op   types.PredicateOp
		v    int32
		want uint64
	}{
		{types.OpEQ, 5, 1},
		{types.OpEQ, 100, 0},
		{types.OpEQ, -3, 0},
		{types.OpGT, 5, 94},
		{types.OpGT, 99, 0},
		{types.OpGT, -1, 100},
		{types.OpGT, 100, 0},
		{types.OpGE, 5, 95},
		{types.OpGE, -1, 100},
		{types.OpGE, 100, 0},
		{types.OpLT, 5, 5},
		{types.OpLT, 0, 0},
		{types.OpLT, 100, 100},
		{types.OpLT, 55, 55},
		{types.OpLE, 5, 6},
		{types.OpNE, 5, 99},
		{types.OpNE, 500, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cs.EstimateCardinality(tt.op, tt.v), "%s %d", tt.op, tt.v)
	}
}

func TestSelectivity(t *testing.T) {
	cs := uniform(t)
	assert.InDelta(t, 0.94, cs.Selectivity(types.OpGT, 5), 1e-9)
	assert.InDelta(t, 1.0, cs.Selectivity(types.OpGE, 0), 1e-9)

	empty, err := NewColumnStats(4, 0, 8)
	require.NoError(t, err)
	assert.Zero(t, empty.EstimateCardinality(types.OpNE, 3))
	assert.Zero(t, empty.Selectivity(types.OpLT, 3))
}

func TestBuild(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	se, err := storageengine.NewStorageEngine(cfg)
	require.NoError(t, err)
	defer se.Close()

	d, err := tuple.NewDescriptor([]types.FieldType{types.TypeInt, types.TypeChar}, []string{"n", "label"})
	require.NoError(t, err)
	hf, err := se.CreateHeap("nums", d)
	require.NoError(t, err)
	for i := int32(1); i <= 20; i++ {
		require.NoError(t, hf.Insert(types.NewRow(types.IntField(i), types.CharField("x"))))
	}

	cs, err := Build(hf, "n", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), cs.Total())
	assert.Equal(t, int64(5), cs.BucketWidth())
	assert.Equal(t, []uint64{5, 5, 5, 5}, cs.Buckets())
	assert.Equal(t, uint64(10), cs.EstimateCardinality(types.OpGT, 10))

	_, err = Build(hf, "label", 4)
	assert.ErrorIs(t, err, ErrNotInt)
	_, err = Build(hf, "missing", 4)
	assert.ErrorIs(t, err, tuple.ErrFieldNotFound)
}
