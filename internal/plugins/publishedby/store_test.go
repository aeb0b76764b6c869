package publishedby

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsint(t *testing.T) {
	tests := []struct {
		in   interface{}
		want uint64
	}{
		{nil, 0},
		{7, 7},
		{-7, 7},
		{int64(-3), 3},
		{uint64(9), 9},
		{float64(12.9), 12},
		{float64(-4), 4},
		{math.NaN(), 0},
		{"15", 15},
		{" -15 ", 15},
		{"12abc", 12},
		{"abc", 0},
		{json.Number("21"), 21},
		{json.Number("-21"), 21},
		{json.Number("9007199254740993"), 9007199254740993},
		{json.Number("18446744073709551615"), math.MaxUint64},
		{json.Number("1e3"), 1000},
		{json.Number("1e30"), 0},
		{float64(1e20), 0},
		{"9007199254740993", 9007199254740993},
		{true, 1},
		{[]int{1}, 0},
	}
	for _, tt := range tests {
		got, err := Absint(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestStore_ReadsLegacyStringValues(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.meta.Set(ctx, 3, MetaNamespace, MetaKey, "42"))
	id, err := f.store.PublisherID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	require.NoError(t, f.store.SetPublisherID(ctx, 3, 5))
	id, err = f.store.PublisherID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), id)

	id, err = f.store.LastEditor(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestStore_LargeIDsKeepPrecision(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// 2^53 + 1 은 float64 로 표현되지 않음
	const big = uint64(1<<53 + 1)
	require.NoError(t, f.store.SetPublisherID(ctx, 4, big))
	id, err := f.store.PublisherID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, big, id)

	require.NoError(t, f.store.SetPublisherID(ctx, 4, math.MaxUint64))
	id, err = f.store.PublisherID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), id)
}
