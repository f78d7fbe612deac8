package sim

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/inference-sim/resampling/sim/internal/testutil"
)

func weighted(weights ...float64) []Item {
	items := make([]Item, len(weights))
	for i, w := range weights {
		items[i] = Item{Value: float64(i), Weight: w}
	}
	return items
}

// scriptedSource replays fixed uniform draws, expressed as fractions of 2^32.
type scriptedSource struct {
	draws []float64
	next  int
}

func (s *scriptedSource) Uint32() uint32 {
	u := s.draws[s.next]
	s.next++
	return uint32(u * (1 << 32))
}

func TestNewResampler_Errors(t *testing.T) {
	tests := []struct {
		name    string
		items   []Item
		wantErr error
	}{
		{"empty", nil, ErrEmptyPopulation},
		{"all zero", weighted(0, 0, 0), ErrZeroWeightSum},
		{"negative", weighted(1, -1), ErrInvalidWeight},
		{"nan", weighted(1, math.NaN()), ErrInvalidWeight},
		{"infinite", weighted(math.Inf(1), 1), ErrInvalidWeight},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewResampler(tc.items)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestSelect_ScriptedDraws_ReplaceWhenBelowRatio(t *testing.T) {
	// GIVEN weights 1, 1, 2 with running sums 1, 2, 4
	r, err := NewResampler(weighted(1, 1, 2))
	require.NoError(t, err)

	// WHEN the draws are 0.9 (< 1/1), 0.6 (>= 1/2) and 0.75 (>= 2/4)
	src := &scriptedSource{draws: []float64{0.9, 0.6, 0.75}}

	// THEN item 0 is held throughout
	assert.Equal(t, 0.0, r.Select(src))
	assert.Equal(t, 3, src.next, "one draw per item")

	// WHEN the last draw is 0.25 (< 2/4)
	src = &scriptedSource{draws: []float64{0.9, 0.6, 0.25}}

	// THEN item 2 replaces it
	assert.Equal(t, 2.0, r.Select(src))
}

func TestSelect_LeadingZeroWeights_NeverSelected(t *testing.T) {
	// GIVEN zero weights before and after the only positive one
	r, err := NewResampler(weighted(0, 0, 3, 0))
	require.NoError(t, err)

	// WHEN draws are as small as possible
	src := &scriptedSource{draws: []float64{0, 0, 0.99, 0}}

	// THEN the positive item is the only possible selection
	assert.Equal(t, 2.0, r.Select(src))
}

func TestSelectOne_ValidatesAndSelects(t *testing.T) {
	_, err := SelectOne(nil, &scriptedSource{})
	assert.True(t, errors.Is(err, ErrEmptyPopulation))

	v, err := SelectOne(weighted(5), &scriptedSource{draws: []float64{0.999}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestSelect_FrequenciesProportionalToWeights(t *testing.T) {
	// GIVEN weights 1, 2, 3, 4
	weights := []float64{1, 2, 3, 4}
	r, err := NewResampler(weighted(weights...))
	require.NoError(t, err)

	// WHEN 20000 independent selections are made
	rng := NewPartitionedRNG(DeterministicSeed).ForSubsystem(SubsystemResample)
	counts := make([]int, len(weights))
	for i := 0; i < 20000; i++ {
		counts[int(r.Select(rng))]++
	}

	// THEN selection frequencies pass a chi-squared test at alpha = 0.001
	testutil.AssertChiSquaredFit(t, "selection frequencies", counts, weights, 0.001)
}

func TestSelect_WeightScaleInvariance(t *testing.T) {
	// GIVEN the same population with every weight multiplied by 8
	base := weighted(0.5, 1.25, 3, 0.125, 2)
	scaled := make([]Item, len(base))
	for i, it := range base {
		it.Weight *= 8
		scaled[i] = it
	}
	rb, err := NewResampler(base)
	require.NoError(t, err)
	rs, err := NewResampler(scaled)
	require.NoError(t, err)

	// WHEN both run with identically seeded streams
	srcB := NewPartitionedRNG(99).ForSubsystem(SubsystemResample)
	srcS := NewPartitionedRNG(99).ForSubsystem(SubsystemResample)

	// THEN every selection is identical (power-of-two scaling is exact)
	for i := 0; i < 1000; i++ {
		require.Equal(t, rb.Select(srcB), rs.Select(srcS), "trial %d", i)
	}
}

func TestResample_SameSeedAndWorkers_Deterministic(t *testing.T) {
	r, err := NewResampler(weighted(1, 2, 3, 4, 5, 6, 7, 8))
	require.NoError(t, err)

	for _, workers := range []int{1, 3} {
		a, err := r.Resample(context.Background(), 1000, NewPartitionedRNG(7).Workers(workers))
		require.NoError(t, err)
		b, err := r.Resample(context.Background(), 1000, NewPartitionedRNG(7).Workers(workers))
		require.NoError(t, err)
		assert.Equal(t, a, b, "workers=%d", workers)
	}
}

func TestResample_SingleWorker_MatchesSequentialSelect(t *testing.T) {
	// GIVEN one worker, whose stream is the resample subsystem
	r, err := NewResampler(weighted(3, 1, 4, 1, 5))
	require.NoError(t, err)
	got, err := r.Resample(context.Background(), 200, NewPartitionedRNG(5).Workers(1))
	require.NoError(t, err)

	// THEN the result equals calling Select in a loop on the same stream
	rng := NewPartitionedRNG(5).ForSubsystem(SubsystemResample)
	for i := range got {
		require.Equal(t, r.Select(rng), got[i], "trial %d", i)
	}
}

func TestResample_ParallelFrequencies(t *testing.T) {
	// GIVEN four workers
	weights := []float64{4, 3, 2, 1}
	r, err := NewResampler(weighted(weights...))
	require.NoError(t, err)

	// WHEN trials are split across them
	out, err := r.Resample(context.Background(), 20000, NewPartitionedRNG(11).Workers(4))
	require.NoError(t, err)

	// THEN every trial produced a value and frequencies follow the weights
	require.Len(t, out, 20000)
	counts := make([]int, len(weights))
	for _, v := range out {
		counts[int(v)]++
	}
	testutil.AssertChiSquaredFit(t, "parallel selection frequencies", counts, weights, 0.001)
}

func TestResample_MoreWorkersThanTrials(t *testing.T) {
	r, err := NewResampler(weighted(1, 1))
	require.NoError(t, err)

	out, err := r.Resample(context.Background(), 3, NewPartitionedRNG(1).Workers(8))
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestResample_CancelledContext(t *testing.T) {
	r, err := NewResampler(weighted(1, 1))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Resample(ctx, 100, NewPartitionedRNG(1).Workers(2))
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestResample_InvalidArguments(t *testing.T) {
	r, err := NewResampler(weighted(1))
	require.NoError(t, err)

	_, err = r.Resample(context.Background(), -1, NewPartitionedRNG(1).Workers(1))
	assert.Error(t, err)
	_, err = r.Resample(context.Background(), 10, []*rand.Rand{})
	assert.Error(t, err)
}

func BenchmarkSelect_100kItems(b *testing.B) {
	items := make([]Item, 100000)
	for i := range items {
		items[i] = Item{Value: float64(i), Weight: 1 + float64(i%7)}
	}
	r, err := NewResampler(items)
	if err != nil {
		b.Fatal(err)
	}
	rng := NewPartitionedRNG(1).ForSubsystem(SubsystemResample)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Select(rng)
	}
}
