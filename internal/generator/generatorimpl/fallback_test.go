package generatorimpl

import (
	"context"
	"testing"
	"time"

	"github.com/planloop/content-planner/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		topic string
		want  topicClass
	}{
		{"tutorial de código em React", classTechnology},
		{"DEV productivity hacks", classTechnology},
		{"minha receita de bolo", classFood},
		{"Sunday FOOD tour", classFood},
		{"morning walk by the lake", classGeneral},
		{"", classGeneral},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, classify(tt.topic), "topic %q", tt.topic)
	}
}

func TestSimulate_TechnologyTopicInterpolatesAndTagsDevelopment(t *testing.T) {
	g := newTestGenerator("http://127.0.0.1:1/", true)

	topic := "tutorial de código em React"
	result, err := g.simulate(context.Background(), topic)
	require.NoError(t, err)
	require.True(t, result.Simulated)
	require.Contains(t, result.Caption, topic)
	require.Equal(t, []string{"#Development", "#Programming", "#TechTips", "#CleanCode", "#Innovation"}, result.Hashtags)
}

func TestSimulate_HashtagCountIsFixedPerTemplate(t *testing.T) {
	g := newTestGenerator("http://127.0.0.1:1/", true)

	for _, topic := range []string{"dev tips", "receita de pão", "beach day"} {
		result, err := g.simulate(context.Background(), topic)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(result.Hashtags), 4, "topic %q", topic)
		require.LessOrEqual(t, len(result.Hashtags), 5, "topic %q", topic)
	}
}

func TestSimulate_WaitsTheConfiguredDelay(t *testing.T) {
	g := newTestGenerator("http://127.0.0.1:1/", true)
	g.simulatedDelay = 50 * time.Millisecond

	start := time.Now()
	_, err := g.simulate(context.Background(), "anything")
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSimulate_HonorsContextCancellation(t *testing.T) {
	g := &GeneratorImpl{simulatedDelay: time.Minute, logger: logger.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.simulate(ctx, "anything")
	require.ErrorIs(t, err, context.Canceled)
}
