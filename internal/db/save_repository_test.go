package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/udisondev/hearth/internal/db"
	"github.com/udisondev/hearth/internal/saves"
	"github.com/udisondev/hearth/internal/snapshot"
	"github.com/udisondev/hearth/internal/testutil"
)

type SaveRepositorySuite struct {
	suite.Suite
	ctx  context.Context
	db   *db.DB
	repo *db.SaveRepository
	save *snapshot.Save
}

func (s *SaveRepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	s.db = testutil.SetupTestDB(s.T())
	s.repo = db.NewSaveRepository(s.db.Pool())
	s.save = testutil.SampleSave(s.T())
}

func (s *SaveRepositorySuite) SetupTest() {
	_, err := s.db.Pool().Exec(s.ctx, "TRUNCATE TABLE save_slots, save_history")
	s.Require().NoError(err)
}

func (s *SaveRepositorySuite) TestPutGet() {
	s.Require().NoError(saves.Save(s.ctx, s.repo, "slot1", s.save))

	got, err := saves.Load(s.ctx, s.repo, "slot1")
	s.Require().NoError(err)

	s.Equal(s.save.SnapshotID, got.SnapshotID)
	s.Len(got.Agents, len(s.save.Agents))
	s.Equal(s.save.Map, got.Map)
}

func (s *SaveRepositorySuite) TestPutOverwrites() {
	s.Require().NoError(saves.Save(s.ctx, s.repo, "slot1", s.save))

	second := *s.save
	second.SnapshotID = "7f9d2c1e-8c1b-4a5e-9a43-2b7c0f1d3e55"
	second.Clock += 60
	s.Require().NoError(saves.Save(s.ctx, s.repo, "slot1", &second))

	list, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(second.SnapshotID, list[0].SnapshotID.String())
	s.InDelta(second.Clock, list[0].Clock, 1e-9)

	history, err := s.repo.History(s.ctx, "slot1")
	s.Require().NoError(err)
	s.Len(history, 2)
}

func (s *SaveRepositorySuite) TestListNewestFirst() {
	for _, slot := range []string{"a", "b", "c"} {
		s.Require().NoError(saves.Save(s.ctx, s.repo, slot, s.save))
		time.Sleep(5 * time.Millisecond)
	}

	list, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("c", list[0].Slot)
	s.Equal(len(s.save.Agents), list[0].Agents)
	s.Positive(list[0].Size)
}

func (s *SaveRepositorySuite) TestMissingSlot() {
	_, err := s.repo.Get(s.ctx, "nothing")
	s.ErrorIs(err, saves.ErrSlotNotFound)
	s.ErrorIs(s.repo.Delete(s.ctx, "nothing"), saves.ErrSlotNotFound)
}

func (s *SaveRepositorySuite) TestDelete() {
	s.Require().NoError(saves.Save(s.ctx, s.repo, "gone", s.save))

	s.Require().NoError(s.repo.Delete(s.ctx, "gone"))

	_, err := s.repo.Get(s.ctx, "gone")
	s.ErrorIs(err, saves.ErrSlotNotFound)
}

func (s *SaveRepositorySuite) TestRejectsBadSlot() {
	s.ErrorIs(saves.Save(s.ctx, s.repo, "../x", s.save), saves.ErrInvalidSlot)
}

func TestSaveRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres tests in short mode")
	}

	suite.Run(t, new(SaveRepositorySuite))
}
