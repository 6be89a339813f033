package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func repWith(dur, amp float64) RepMetrics {
	return RepMetrics{Duration: dur, Amplitude: amp}
}

func TestScoreConsistencyIdenticalReps(t *testing.T) {
	t.Parallel()

	reps := []RepMetrics{repWith(1.2, 4), repWith(1.2, 4), repWith(1.2, 4)}
	r := ScoreConsistency(reps, nil)

	assert.Equal(t, 100.0, r.Score)
	assert.Equal(t, LabelExcellent, r.Label)
	assert.Zero(t, r.DurationCVPct)
	assert.Zero(t, r.AmplitudeCVPct)
}

func TestScoreConsistencyBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		reps []RepMetrics
	}{
		{"uniform", []RepMetrics{repWith(1, 2), repWith(1, 2)}},
		{"moderate spread", []RepMetrics{repWith(1, 2), repWith(1.4, 2.5), repWith(0.9, 1.8)}},
		{"wild spread", []RepMetrics{repWith(0.1, 0.1), repWith(5, 40), repWith(0.5, 2)}},
		{"zero means", []RepMetrics{repWith(0, 0), repWith(0, 0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := ScoreConsistency(tc.reps, nil)
			assert.GreaterOrEqual(t, r.Score, 0.0)
			assert.LessOrEqual(t, r.Score, 100.0)
		})
	}
}

func TestScoreConsistencyZeroMeans(t *testing.T) {
	t.Parallel()

	// Zero-mean durations define CV as 0 — no division error, full score.
	r := ScoreConsistency([]RepMetrics{repWith(0, 0), repWith(0, 0), repWith(0, 0)}, nil)
	assert.Equal(t, 100.0, r.Score)
}

func TestScoreConsistencyFewReps(t *testing.T) {
	t.Parallel()

	t.Run("defaults to 100", func(t *testing.T) {
		t.Parallel()
		r := ScoreConsistency([]RepMetrics{repWith(1, 2)}, nil)
		assert.Equal(t, 100.0, r.Score)
		assert.Equal(t, LabelNA, r.Label)
	})

	t.Run("uses supplied fallback", func(t *testing.T) {
		t.Parallel()
		r := ScoreConsistency(nil, fptr(62.5))
		assert.Equal(t, 62.5, r.Score)
		assert.Equal(t, LabelNA, r.Label)
	})
}

func TestConsistencyLabels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{95, LabelExcellent},
		{90, LabelExcellent},
		{89.9, LabelGood},
		{75, LabelGood},
		{74.9, LabelFair},
		{60, LabelFair},
		{59.9, LabelNeedsWork},
		{0, LabelNeedsWork},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, consistencyLabel(tc.score), "score %v", tc.score)
	}
}
