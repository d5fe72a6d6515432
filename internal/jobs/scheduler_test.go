package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"userhub/api/internal/testutil"
)

type fakePurger struct {
	cutoff  time.Time
	deleted int64
	err     error
	calls   int
}

func (f *fakePurger) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestScheduler_PurgeUsesRetentionCutoff(t *testing.T) {
	purger := &fakePurger{deleted: 3}
	retention := 90 * 24 * time.Hour

	s := NewScheduler(purger, retention, testutil.Logger())
	s.purgeSessions()

	assert.Equal(t, 1, purger.calls)
	expected := time.Now().Add(-retention)
	assert.WithinDuration(t, expected, purger.cutoff, time.Minute)
}

func TestScheduler_StartWithoutPurgerIsNoop(t *testing.T) {
	s := NewScheduler(nil, 0, testutil.Logger())

	assert.NoError(t, s.Start())
	s.Stop()
}

func TestScheduler_StartAndStop(t *testing.T) {
	purger := &fakePurger{}

	s := NewScheduler(purger, time.Hour, testutil.Logger())
	assert.NoError(t, s.Start())
	s.Stop()

	// The purge entry is scheduled for 03:00; nothing runs during the test.
	assert.Equal(t, 0, purger.calls)
}
