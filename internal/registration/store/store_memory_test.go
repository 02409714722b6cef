package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pccreg/internal/registration/models"
	"pccreg/pkg/platform/sentinel"
)

func newRegistration(nim string, track models.Track) *models.Registration {
	return &models.Registration{
		ID:           "id-" + nim,
		FullName:     "Budi Santoso",
		NIM:          nim,
		StudyProgram: "D3 Teknik Informatika",
		Major:        "Teknologi Informasi",
		Track:        track,
		WhatsApp:     "+628123456789",
		Status:       models.StatusPending,
		CreatedAt:    time.Now(),
	}
}

func TestInMemoryStore(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	t.Run("FindByNIM on empty store returns not found", func(t *testing.T) {
		_, err := store.FindByNIM(ctx, "missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("Create then FindByNIM round-trips", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, newRegistration("A1", models.TrackSoftware)))

		got, err := store.FindByNIM(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, "A1", got.NIM)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("Create with duplicate NIM conflicts", func(t *testing.T) {
		dup := newRegistration("A1", models.TrackNetwork)
		dup.ID = "other-id"
		assert.ErrorIs(t, store.Create(ctx, dup), sentinel.ErrConflict)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		got, err := store.FindByNIM(ctx, "A1")
		require.NoError(t, err)
		got.Status = models.StatusReject

		again, err := store.FindByNIM(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, again.Status, "caller mutation must not leak into the store")
	})

	t.Run("UpdateStatus on missing id returns not found", func(t *testing.T) {
		_, err := store.UpdateStatus(ctx, "missing", models.StatusVerify)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("Delete frees the NIM", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "id-A1"))
		assert.NoError(t, store.Create(ctx, newRegistration("A1", models.TrackSoftware)))
	})
}

func TestInMemoryStoreCountActiveByTrack(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Create(ctx, newRegistration(fmt.Sprintf("S%d", i), models.TrackSoftware)))
	}
	require.NoError(t, store.Create(ctx, newRegistration("N1", models.TrackNetwork)))

	count, err := store.CountActiveByTrack(ctx, models.TrackSoftware)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// REJECT stops counting; VERIFY still counts.
	_, err = store.UpdateStatus(ctx, "id-S0", models.StatusReject)
	require.NoError(t, err)
	_, err = store.UpdateStatus(ctx, "id-S1", models.StatusVerify)
	require.NoError(t, err)

	count, err = store.CountActiveByTrack(ctx, models.TrackSoftware)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountActiveByTrack(ctx, models.TrackNetwork)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInMemoryStoreListOrder(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		reg := newRegistration(fmt.Sprintf("L%d", i), models.TrackSoftware)
		reg.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Create(ctx, reg))
	}

	regs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 3)
	assert.Equal(t, "L2", regs[0].NIM, "newest first")
	assert.Equal(t, "L0", regs[2].NIM)
}

// TestInMemoryStoreConcurrentSameNIM verifies that concurrent creates with
// the same NIM result in exactly one success.
func TestInMemoryStoreConcurrentSameNIM(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg := newRegistration("RACE", models.TrackSoftware)
			reg.ID = fmt.Sprintf("id-%d", i)
			switch err := store.Create(ctx, reg); {
			case err == nil:
				successCount.Add(1)
			case assert.ErrorIs(t, err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successCount.Load(), "exactly one create should succeed")
	assert.Equal(t, int32(goroutines-1), conflictCount.Load())
}
