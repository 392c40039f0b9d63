package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"mixes-tracker/internal/class"
	"mixes-tracker/internal/database"
	"mixes-tracker/internal/domain"
	"mixes-tracker/internal/performance"
	"mixes-tracker/internal/steamid"
)

type RepositorySuite struct {
	suite.Suite
	db    *sql.DB
	users *UserRepository
	logs  *LogRepository
	stats *StatsRepository
	ctx   context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	db, err := sql.Open("sqlite3", ":memory:")
	s.Require().NoError(err)
	db.SetMaxOpenConns(1)
	s.Require().NoError(database.Migrate(db, zerolog.Nop()))

	s.db = db
	s.users = NewUserRepository(db, zerolog.Nop())
	s.logs = NewLogRepository(db, zerolog.Nop())
	s.stats = NewStatsRepository(db, zerolog.Nop())
	s.ctx = context.Background()
}

func (s *RepositorySuite) TearDownTest() {
	s.db.Close()
}

func player(accountID uint32) steamid.SteamID {
	return steamid.FromParts(steamid.UniversePublic, steamid.AccountIndividual, accountID)
}

func (s *RepositorySuite) sampleLog(logID uint32, playerID steamid.SteamID) *domain.Log {
	generic := performance.Generic{WonRounds: 3, NumRounds: 5, DamageTaken: 300}
	return &domain.Log{
		LogID:        logID,
		PlayedAt:     time.Unix(1700000300, 0).UTC(),
		Map:          "cp_process_final",
		PlayerCount:  12,
		DurationSecs: 1800,
		Performances: map[steamid.SteamID][]performance.Entry{
			playerID: {
				{
					Kind:    performance.KindOverall,
					Generic: generic,
					Overall: &performance.Overall{Damage: 500, Kills: 4, Deaths: 2, Medkits: 3, MedkitsHP: 90},
				},
				{
					Kind:    performance.KindClass,
					Generic: generic,
					Class: &performance.ClassStats{
						Class: class.Scout, Kills: 4, Assists: 1, Deaths: 2, Damage: 500, TimePlayedSecs: 1700,
					},
				},
			},
		},
	}
}

// UserRepository tests

func (s *RepositorySuite) TestAddUser() {
	added, err := s.users.Add(s.ctx, player(1), 1001)
	s.Require().NoError(err)
	s.True(added)

	ids, err := s.users.TrackedIDs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]steamid.SteamID{player(1)}, ids)
}

func (s *RepositorySuite) TestAddUserDuplicateSteamID() {
	_, err := s.users.Add(s.ctx, player(1), 1001)
	s.Require().NoError(err)

	added, err := s.users.Add(s.ctx, player(1), 2002)
	s.Require().NoError(err)
	s.False(added)
}

func (s *RepositorySuite) TestAddUserDuplicateDiscordID() {
	_, err := s.users.Add(s.ctx, player(1), 1001)
	s.Require().NoError(err)

	added, err := s.users.Add(s.ctx, player(2), 1001)
	s.Require().NoError(err)
	s.False(added)

	ids, err := s.users.TrackedIDs(s.ctx)
	s.Require().NoError(err)
	s.Len(ids, 1)
}

func (s *RepositorySuite) TestRemoveUser() {
	_, err := s.users.Add(s.ctx, player(1), 1001)
	s.Require().NoError(err)

	removed, err := s.users.Remove(s.ctx, player(1))
	s.Require().NoError(err)
	s.True(removed)

	removed, err = s.users.Remove(s.ctx, player(1))
	s.Require().NoError(err)
	s.False(removed)
}

func (s *RepositorySuite) TestRemoveUserKeepsStats() {
	_, err := s.users.Add(s.ctx, player(1), 1001)
	s.Require().NoError(err)
	s.Require().NoError(s.logs.SaveLog(s.ctx, s.sampleLog(105, player(1))))

	_, err = s.users.Remove(s.ctx, player(1))
	s.Require().NoError(err)

	report, err := s.stats.ClassPerformance(s.ctx, player(1), class.Scout, 10)
	s.Require().NoError(err)
	s.Len(report, 1)
}

// LogRepository tests

func (s *RepositorySuite) TestSaveLogAndKnownIDs() {
	s.Require().NoError(s.logs.SaveLog(s.ctx, s.sampleLog(102, player(1))))
	s.Require().NoError(s.logs.SaveLog(s.ctx, s.sampleLog(105, player(1))))

	ids, err := s.logs.KnownLogIDs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]uint32{105, 102}, ids)
}

func (s *RepositorySuite) TestSaveLogRejectsDuplicateID() {
	s.Require().NoError(s.logs.SaveLog(s.ctx, s.sampleLog(105, player(1))))

	err := s.logs.SaveLog(s.ctx, s.sampleLog(105, player(2)))
	s.Require().Error(err)

	// The failed write must not leave partial rows behind.
	report, err := s.stats.ClassPerformance(s.ctx, player(2), class.Scout, 10)
	s.Require().NoError(err)
	s.Empty(report)
}

// StatsRepository tests

func (s *RepositorySuite) TestClassPerformanceReport() {
	s.Require().NoError(s.logs.SaveLog(s.ctx, s.sampleLog(105, player(1))))

	report, err := s.stats.ClassPerformance(s.ctx, player(1), class.Scout, 10)
	s.Require().NoError(err)
	s.Require().Len(report, 1)

	row := report[0]
	s.Equal(uint32(105), row.LogID)
	s.Equal("cp_process_final", row.Map)
	s.Equal("scout", row.ClassName)
	s.Equal(3, row.WonRounds)
	s.Equal(5, row.NumRounds)
	s.Equal(4, row.Kills)
	s.Equal(1, row.Assists)
	s.Equal(2, row.Deaths)
	s.Equal(500, row.Damage)
	s.Equal(300, row.DamageTaken)
	s.Equal(1700, row.TimePlayedSecs)
}

func (s *RepositorySuite) TestClassPerformanceNewestFirstWithLimit() {
	for _, id := range []uint32{99, 102, 105} {
		s.Require().NoError(s.logs.SaveLog(s.ctx, s.sampleLog(id, player(1))))
	}

	report, err := s.stats.ClassPerformance(s.ctx, player(1), class.Scout, 2)
	s.Require().NoError(err)
	s.Require().Len(report, 2)
	s.Equal(uint32(105), report[0].LogID)
	s.Equal(uint32(102), report[1].LogID)
}

func (s *RepositorySuite) TestClassPerformanceFiltersClassAndKind() {
	s.Require().NoError(s.logs.SaveLog(s.ctx, s.sampleLog(105, player(1))))

	// Overall rows and other classes never leak into the report.
	report, err := s.stats.ClassPerformance(s.ctx, player(1), class.Soldier, 10)
	s.Require().NoError(err)
	s.Empty(report)
}
