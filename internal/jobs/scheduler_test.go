package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunLogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewScheduler(time.UTC, zap.New(core))

	s.run("ok", time.Second, func(ctx context.Context) error { return nil })
	s.run("bad", time.Second, func(ctx context.Context) error { return errors.New("boom") })

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "job concluído", logs.All()[0].Message)
	assert.Equal(t, "job falhou", logs.All()[1].Message)
	assert.Equal(t, "bad", logs.All()[1].ContextMap()["job"])
}

func TestRunAppliesTimeout(t *testing.T) {
	s := NewScheduler(time.UTC, zap.NewNop())

	var deadline bool
	s.run("t", time.Minute, func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	})
	assert.True(t, deadline)
}

func TestAddRejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC, zap.NewNop())
	assert.Error(t, s.Add("x", "not a spec", time.Second, func(context.Context) error { return nil }))
	assert.NoError(t, s.Add("x", "0 9 * * *", time.Second, func(context.Context) error { return nil }))
}

func TestStopCancelsJobs(t *testing.T) {
	s := NewScheduler(time.UTC, zap.NewNop())
	s.Start()
	s.Stop()
	assert.Error(t, s.ctx.Err())
}
