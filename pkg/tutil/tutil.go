// Package tutil holds test fixtures: an in-memory sqlite database with
// the crew schema, plus seed helpers for users, teams and memberships.
package tutil

import (
	"testing"
	"time"

	"github.com/crewlab/crew/pkg/crewdb"
	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type nullLogger struct{}

func (l *nullLogger) Printf(_ string, _ ...interface{}) {
}

// NewTestDB opens a private in-memory sqlite database with migrations
// run. The connection pool is limited to one connection so every query
// sees the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormLogger := logger.New(&nullLogger{},
		logger.Config{
			SlowThreshold:             time.Second * 5,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		})

	db, err := gorm.Open(sqlite.Open(crewdb.SqliteInMemoryDSN), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoErrorf(t, err, "db.DB() failed: %s", err)
	sqlitedb.SetMaxOpenConns(1)

	err = crewdb.RunMigrations(db)
	require.NoErrorf(t, err, "Migration failed with: %s", err)

	return db
}

// NewTestStors returns gorm stors over a fresh in-memory database.
func NewTestStors(t *testing.T) *stor.Stors {
	t.Helper()
	return stor.NewGormStors(NewTestDB(t))
}

// CreateTestUser creates a user with a throwaway password.
func CreateTestUser(t *testing.T, stors *stor.Stors, name, email string) *model.User {
	t.Helper()

	user, err := stors.UserStor.CreateUser(&model.User{Name: name, Email: email}, "test-password")
	require.NoErrorf(t, err, "CreateUser(%s) failed: %s", email, err)
	return user
}

// CreateTestTeam creates a team owned by owner.
func CreateTestTeam(t *testing.T, stors *stor.Stors, name string, owner *model.User) *model.Team {
	t.Helper()

	team, err := stors.TeamStor.CreateTeam(name, owner)
	require.NoErrorf(t, err, "CreateTeam(%s) failed: %s", name, err)
	return team
}

// AddTestMember adds user to team at role.
func AddTestMember(t *testing.T, stors *stor.Stors, user *model.User, team *model.Team, role model.Role) *model.Membership {
	t.Helper()

	membership, err := stors.MembershipStor.CreateMembership(user.ID, team.ID, role)
	require.NoErrorf(t, err, "CreateMembership(%d, %d) failed: %s", user.ID, team.ID, err)
	return membership
}
