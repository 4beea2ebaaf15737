package typechart_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/codemon/internal/game/typechart"
)

type countingSource struct {
	calls atomic.Int32
	gate  chan struct{}
	fail  atomic.Bool
	rel   map[string]typechart.Relations
}

func (s *countingSource) TypeRelations(_ context.Context, attackType string) (typechart.Relations, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.fail.Load() {
		return typechart.Relations{}, errors.New("upstream down")
	}
	rel, ok := s.rel[attackType]
	if !ok {
		return typechart.Relations{}, errors.New("unknown type")
	}
	return rel, nil
}

func fireSource() *countingSource {
	return &countingSource{rel: map[string]typechart.Relations{
		"fire": {
			DoubleDamageTo: []string{"grass", "ice", "bug", "steel"},
			HalfDamageTo:   []string{"fire", "water", "rock", "dragon"},
		},
		"normal": {
			HalfDamageTo: []string{"rock", "steel"},
			NoDamageTo:   []string{"ghost"},
		},
	}}
}

func TestMultiplier_Tiers(t *testing.T) {
	table := typechart.NewTable(fireSource(), zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, typechart.Super, table.Multiplier(ctx, "fire", "grass"))
	assert.Equal(t, typechart.Resist, table.Multiplier(ctx, "fire", "water"))
	assert.Equal(t, typechart.Neutral, table.Multiplier(ctx, "fire", "normal"))
	assert.Equal(t, typechart.Immune, table.Multiplier(ctx, "normal", "ghost"))
}

func TestMultiplier_CaseInsensitive(t *testing.T) {
	table := typechart.NewTable(fireSource(), zap.NewNop())
	assert.Equal(t, typechart.Super, table.Multiplier(context.Background(), "FIRE", " Grass "))
	assert.True(t, table.Cached("Fire"))
}

func TestMultiplier_CachesWithoutRefetch(t *testing.T) {
	src := fireSource()
	table := typechart.NewTable(src, zap.NewNop())
	ctx := context.Background()

	first := table.Multiplier(ctx, "fire", "ice")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, table.Multiplier(ctx, "fire", "ice"))
		table.Multiplier(ctx, "fire", "dragon")
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestMultiplier_FailureIsNeutralAndRetries(t *testing.T) {
	src := fireSource()
	src.fail.Store(true)
	table := typechart.NewTable(src, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, typechart.Neutral, table.Multiplier(ctx, "fire", "grass"))
	assert.False(t, table.Cached("fire"))

	src.fail.Store(false)
	assert.Equal(t, typechart.Super, table.Multiplier(ctx, "fire", "grass"))
	assert.Equal(t, int32(2), src.calls.Load())
	assert.True(t, table.Cached("fire"))
}

func TestMultiplier_EmptyAttackTypeIsNeutral(t *testing.T) {
	src := fireSource()
	table := typechart.NewTable(src, zap.NewNop())
	assert.Equal(t, typechart.Neutral, table.Multiplier(context.Background(), "", "grass"))
	assert.Equal(t, int32(0), src.calls.Load())
}

func TestMultiplier_ConcurrentFirstLookupsFetchOnce(t *testing.T) {
	src := fireSource()
	src.gate = make(chan struct{})
	table := typechart.NewTable(src, zap.NewNop())

	const callers = 16
	var wg sync.WaitGroup
	results := make([]float64, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = table.Multiplier(context.Background(), "fire", "steel")
		}(i)
	}
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for _, r := range results {
		assert.Equal(t, typechart.Super, r)
	}
}

func TestBuild_LaterBucketWins(t *testing.T) {
	m := typechart.Build(typechart.Relations{
		DoubleDamageTo: []string{"ghost", "rock", "Water"},
		HalfDamageTo:   []string{"ghost", "rock"},
		NoDamageTo:     []string{"ghost"},
	})
	assert.Equal(t, typechart.Immune, m["ghost"])
	assert.Equal(t, typechart.Resist, m["rock"])
	assert.Equal(t, typechart.Super, m["water"])
	_, listed := m["fire"]
	assert.False(t, listed)
}

func TestBuild_Property_ValuesInDomain(t *testing.T) {
	names := rapid.SampledFrom([]string{"fire", "water", "grass", "ghost", "rock", "ice"})
	rapid.Check(t, func(rt *rapid.T) {
		m := typechart.Build(typechart.Relations{
			DoubleDamageTo: rapid.SliceOf(names).Draw(rt, "double"),
			HalfDamageTo:   rapid.SliceOf(names).Draw(rt, "half"),
			NoDamageTo:     rapid.SliceOf(names).Draw(rt, "none"),
		})
		for _, v := range m {
			assert.Contains(rt, []float64{typechart.Immune, typechart.Resist, typechart.Super}, v)
		}
	})
}

func TestClassify(t *testing.T) {
	assert.Equal(t, typechart.EffectImmune, typechart.Classify(0))
	assert.Equal(t, typechart.EffectNotVery, typechart.Classify(0.5))
	assert.Equal(t, typechart.EffectNeutral, typechart.Classify(1))
	assert.Equal(t, typechart.EffectSuper, typechart.Classify(2))
	assert.Equal(t, "super effective", typechart.EffectSuper.String())
}
