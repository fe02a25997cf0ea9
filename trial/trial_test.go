package trial

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/trialkit/catalog"
	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/serializer"
	"github.com/ceyewan/trialkit/tracker"
	"github.com/ceyewan/trialkit/xerrors"
)

func TestNew(t *testing.T) {
	tr, err := New("val_loss")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, tr.Status)
	assert.Equal(t, "val_loss", tr.Objective)
	assert.Nil(t, tr.Score)
	assert.Nil(t, tr.BestStep)
	_, err = uuid.Parse(tr.ID)
	assert.NoError(t, err)

	tr, err = New("val_loss", WithID("trial-7"))
	require.NoError(t, err)
	assert.Equal(t, "trial-7", tr.ID)

	_, err = New("")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestReportTracksObjective(t *testing.T) {
	tr, err := New("val_accuracy")
	require.NoError(t, err)

	steps := []struct {
		value    float64
		wantBest bool
	}{
		{0.5, true},
		{0.7, true},
		{0.6, false},
	}
	for i, s := range steps {
		best, err := tr.Report("val_accuracy", s.value, int64(i))
		require.NoError(t, err)
		assert.Equal(t, s.wantBest, best, "step %d", i)

		_, err = tr.Report("loss", 1.0/float64(i+1), int64(i))
		require.NoError(t, err)
	}

	require.NotNil(t, tr.Score)
	assert.Equal(t, 0.7, *tr.Score)
	require.NotNil(t, tr.BestStep)
	assert.Equal(t, int64(1), *tr.BestStep)
	assert.Equal(t, tracker.Maximize, tr.Direction())
}

func TestDirectionUsesTrackerResolver(t *testing.T) {
	c := catalog.New(catalog.Class{MetricName: "f1", ClassName: "Precision"})
	tr, err := New("f1", WithTrackerOptions(tracker.WithResolver(c)))
	require.NoError(t, err)

	before := tr.Direction()
	assert.Equal(t, tracker.Maximize, before)

	_, err = tr.Report("f1", 0.6, 0)
	require.NoError(t, err)
	assert.Equal(t, before, tr.Direction())
}

func TestReportNaNObjectiveKeepsScoreNil(t *testing.T) {
	tr, err := New("loss")
	require.NoError(t, err)

	best, err := tr.Report("loss", math.NaN(), 0)
	require.NoError(t, err)
	assert.True(t, best)
	assert.Nil(t, tr.Score)

	_, err = tr.Report("loss", "bad", 1)
	assert.ErrorIs(t, err, tracker.ErrInvalidValue)
}

func TestFinish(t *testing.T) {
	tr, err := New("loss")
	require.NoError(t, err)

	err = tr.Finish(StatusRunning)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	err = tr.Finish("DONE")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = tr.Report("loss", 0.3, 0)
	require.NoError(t, err)
	require.NoError(t, tr.Finish(StatusCompleted))
	assert.Equal(t, StatusCompleted, tr.Status)

	err = tr.Finish(StatusStopped)
	assert.ErrorIs(t, err, ErrFinished)
	assert.Equal(t, "TRIAL_FINISHED", xerrors.GetCode(err))

	_, err = tr.Report("loss", 0.1, 1)
	assert.ErrorIs(t, err, ErrFinished)
	assert.Equal(t, 0.3, *tr.Score)
}

func TestFinishLogs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := clog.New(&clog.Config{Level: "info", Format: "json", Output: "buffer"}, clog.WithWriter(&buf))
	require.NoError(t, err)

	tr, err := New("loss", WithID("t-1"), WithLogger(logger))
	require.NoError(t, err)
	_, err = tr.Report("loss", 0.25, 4)
	require.NoError(t, err)
	require.NoError(t, tr.Finish(StatusCompleted))

	out := buf.String()
	assert.Contains(t, out, `"namespace":"trial"`)
	assert.Contains(t, out, `"trial_id":"t-1"`)
	assert.Contains(t, out, `"best_step":4`)
	assert.Contains(t, out, `"metrics":1`)
	assert.Contains(t, out, `"scored":true`)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusInvalid.Terminal())
	assert.True(t, StatusStopped.Terminal())
	assert.False(t, Status("").Terminal())
}

func TestConfigRoundTrip(t *testing.T) {
	tr, err := New("val_loss", WithID("trial-1"))
	require.NoError(t, err)
	for i, v := range []float64{1.0, 0.8, 0.9} {
		_, err := tr.Report("val_loss", v, int64(i))
		require.NoError(t, err)
	}
	require.NoError(t, tr.Finish(StatusCompleted))

	for _, name := range []string{serializer.JSON, serializer.MsgPack} {
		t.Run(name, func(t *testing.T) {
			s, err := serializer.New(name)
			require.NoError(t, err)

			data, err := s.Marshal(tr.GetConfig())
			require.NoError(t, err)

			var cfg Config
			require.NoError(t, s.Unmarshal(data, &cfg))

			restored, err := FromConfig(&cfg)
			require.NoError(t, err)
			assert.Equal(t, "trial-1", restored.ID)
			assert.Equal(t, StatusCompleted, restored.Status)
			assert.Equal(t, 0.8, *restored.Score)
			assert.Equal(t, int64(1), *restored.BestStep)

			history, err := restored.Metrics.History("val_loss")
			require.NoError(t, err)
			assert.Equal(t, []tracker.Observation{{Value: 1.0, T: 0}, {Value: 0.8, T: 1}, {Value: 0.9, T: 2}}, history)

			_, err = restored.Report("val_loss", 0.1, 3)
			assert.ErrorIs(t, err, ErrFinished)
		})
	}
}

func TestConfigJSONShape(t *testing.T) {
	tr, err := New("loss", WithID("abc"))
	require.NoError(t, err)
	_, err = tr.Report("loss", 0.5, 2)
	require.NoError(t, err)

	s, _ := serializer.New(serializer.JSON)
	data, err := s.Marshal(tr.GetConfig())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"trial_id": "abc",
		"status": "RUNNING",
		"objective": "loss",
		"score": 0.5,
		"best_step": 2,
		"metrics": {
			"names": ["loss"],
			"directions": {"loss": "min"},
			"metrics_history": {"loss": [[0.5, 2]]}
		}
	}`, string(data))
}

func TestFromConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want error
	}{
		{"nil", nil, ErrInvalidConfig},
		{"no id", &Config{Objective: "loss", Status: StatusRunning}, ErrInvalidConfig},
		{"no objective", &Config{TrialID: "a", Status: StatusRunning}, ErrInvalidConfig},
		{"bad status", &Config{TrialID: "a", Objective: "loss", Status: "DONE"}, ErrInvalidConfig},
		{
			"bad metrics",
			&Config{TrialID: "a", Objective: "loss", Status: StatusRunning, Metrics: &tracker.Config{
				Names: []string{"loss"}, Directions: map[string]string{"loss": "up"},
			}},
			tracker.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromConfigWithoutMetrics(t *testing.T) {
	tr, err := FromConfig(&Config{TrialID: "a", Objective: "loss", Status: StatusRunning})
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Metrics.Len())
	assert.Equal(t, tracker.Minimize, tr.Direction())
}
