package cronjob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeStaleStore struct {
	purged     int64
	err        error
	approvedBy string
	olderThan  time.Duration
	calls      int
}

func (f *fakeStaleStore) PurgeStale(_ context.Context, approvedBy string, olderThan time.Duration) (int64, error) {
	f.calls++
	f.approvedBy = approvedBy
	f.olderThan = olderThan
	return f.purged, f.err
}

func TestRunNightlySweep(t *testing.T) {
	t.Run("sweeps the dry-run approver on every store", func(t *testing.T) {
		spec := &fakeStaleStore{purged: 2}
		golden := &fakeStaleStore{}

		s := NewScheduler(map[string]StaleStore{"spec": spec, "golden": golden})
		s.runNightlySweep()

		assert.Equal(t, 1, spec.calls)
		assert.Equal(t, 1, golden.calls)
		assert.Equal(t, "dry-run", spec.approvedBy)
		assert.Equal(t, 24*time.Hour, spec.olderThan)
	})

	t.Run("one store failing does not skip the rest", func(t *testing.T) {
		broken := &fakeStaleStore{err: errors.New("connection refused")}
		healthy := &fakeStaleStore{purged: 1}

		s := NewScheduler(map[string]StaleStore{"playbook": broken, "intent": healthy})
		s.runNightlySweep()

		assert.Equal(t, 1, broken.calls)
		assert.Equal(t, 1, healthy.calls)
	})
}
