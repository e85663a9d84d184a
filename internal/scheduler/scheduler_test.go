package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }
func (j *countingJob) Execute(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestRegisterAndRunByName(t *testing.T) {
	s := New(0)

	ok := &countingJob{name: "ok", schedule: "@every 1h"}
	failing := &countingJob{name: "failing", err: errors.New("boom")}
	require.NoError(t, s.Register(ok))
	require.NoError(t, s.Register(failing))

	found, err := s.RunByName(context.Background(), "ok")
	assert.True(t, found)
	assert.NoError(t, err)
	assert.Equal(t, 1, ok.runs)

	found, err = s.RunByName(context.Background(), "failing")
	assert.True(t, found)
	assert.EqualError(t, err, "boom")

	found, err = s.RunByName(context.Background(), "missing")
	assert.False(t, found)
	assert.NoError(t, err)
}

func TestRegisterRejectsBadSchedule(t *testing.T) {
	s := New(0)
	err := s.Register(&countingJob{name: "bad", schedule: "every now and then"})
	assert.Error(t, err)
}
