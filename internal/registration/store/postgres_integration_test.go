//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pccreg/internal/registration/models"
	"pccreg/internal/registration/store"
	"pccreg/pkg/platform/sentinel"
	"pccreg/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.postgres.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "registrations")
	s.Require().NoError(err)
}

func newTestRegistration(nim string, track models.Track) *models.Registration {
	return &models.Registration{
		ID:           uuid.NewString(),
		FullName:     "Test Participant",
		NIM:          nim,
		StudyProgram: "Informatics",
		Major:        "Computer Science",
		Track:        track,
		WhatsApp:     "+628123456789",
		Status:       models.StatusPending,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()

	reg := newTestRegistration("2310001"+uuid.NewString()[:8], models.TrackSoftware)
	s.Require().NoError(s.store.Create(ctx, reg))

	byNIM, err := s.store.FindByNIM(ctx, reg.NIM)
	s.Require().NoError(err)
	s.Equal(reg.ID, byNIM.ID)
	s.Equal(reg.FullName, byNIM.FullName)
	s.Equal(models.StatusPending, byNIM.Status)

	byID, err := s.store.FindByID(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(reg.NIM, byID.NIM)
}

func (s *PostgresStoreSuite) TestCreateWithoutTrackStoresNull() {
	ctx := context.Background()

	reg := newTestRegistration("notrack-"+uuid.NewString()[:8], "")
	s.Require().NoError(s.store.Create(ctx, reg))

	found, err := s.store.FindByID(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(models.Track(""), found.Track)
}

// TestConcurrentSameNIM verifies that concurrent submissions with the same
// student ID result in exactly one row.
func (s *PostgresStoreSuite) TestConcurrentSameNIM() {
	ctx := context.Background()
	nim := "race-" + uuid.NewString()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			reg := newTestRegistration(nim, models.TrackSoftware)
			err := s.store.Create(ctx, reg)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")

	found, err := s.store.FindByNIM(ctx, nim)
	s.Require().NoError(err)
	s.Equal(nim, found.NIM)
}

func (s *PostgresStoreSuite) TestCountActiveByTrack() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		reg := newTestRegistration("count-sw-"+uuid.NewString()[:8], models.TrackSoftware)
		s.Require().NoError(s.store.Create(ctx, reg))
	}
	rejected := newTestRegistration("count-rej-"+uuid.NewString()[:8], models.TrackSoftware)
	s.Require().NoError(s.store.Create(ctx, rejected))
	_, err := s.store.UpdateStatus(ctx, rejected.ID, models.StatusReject)
	s.Require().NoError(err)

	verified := newTestRegistration("count-ver-"+uuid.NewString()[:8], models.TrackSoftware)
	s.Require().NoError(s.store.Create(ctx, verified))
	_, err = s.store.UpdateStatus(ctx, verified.ID, models.StatusVerify)
	s.Require().NoError(err)

	count, err := s.store.CountActiveByTrack(ctx, models.TrackSoftware)
	s.Require().NoError(err)
	s.Equal(4, count, "PENDING and VERIFY count, REJECT does not")

	other, err := s.store.CountActiveByTrack(ctx, models.TrackNetwork)
	s.Require().NoError(err)
	s.Equal(0, other)
}

func (s *PostgresStoreSuite) TestListNewestFirst() {
	ctx := context.Background()

	first := newTestRegistration("list-1-"+uuid.NewString()[:8], models.TrackNetwork)
	first.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	s.Require().NoError(s.store.Create(ctx, first))

	second := newTestRegistration("list-2-"+uuid.NewString()[:8], models.TrackNetwork)
	second.CreatedAt = time.Now().UTC().Add(-1 * time.Hour)
	s.Require().NoError(s.store.Create(ctx, second))

	regs, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(regs, 2)
	s.Equal(second.ID, regs[0].ID)
	s.Equal(first.ID, regs[1].ID)
}

func (s *PostgresStoreSuite) TestUpdateStatusAndDelete() {
	ctx := context.Background()

	reg := newTestRegistration("upd-"+uuid.NewString()[:8], models.TrackMultimedia)
	s.Require().NoError(s.store.Create(ctx, reg))

	updated, err := s.store.UpdateStatus(ctx, reg.ID, models.StatusVerify)
	s.Require().NoError(err)
	s.Equal(models.StatusVerify, updated.Status)

	s.Require().NoError(s.store.Delete(ctx, reg.ID))

	_, err = s.store.FindByID(ctx, reg.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// NIM is free again after deletion.
	fresh := newTestRegistration(reg.NIM, models.TrackMultimedia)
	s.Require().NoError(s.store.Create(ctx, fresh))
}

func (s *PostgresStoreSuite) TestNotFoundErrors() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByNIM(ctx, "missing-"+uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.UpdateStatus(ctx, uuid.NewString(), models.StatusVerify)
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.Delete(ctx, uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
