package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/internal/testdb"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *User {
	t.Helper()
	u := &User{Username: username, Password: "x", Role: RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u
}

func reload(t *testing.T, db *gorm.DB, id uint) User {
	t.Helper()
	var u User
	require.NoError(t, db.First(&u, id).Error)
	return u
}

func TestApplyMatchResult(t *testing.T) {
	db := testdb.New(t, &User{})
	u := seedUser(t, db, "player")

	require.NoError(t, ApplyMatchResult(db, u.ID, BattleWin()))
	require.NoError(t, ApplyMatchResult(db, u.ID, BattleWin()))
	got := reload(t, db, u.ID)
	assert.Equal(t, 2, got.TotalMatches)
	assert.Equal(t, 2, got.Wins)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 200, got.Experience)

	require.NoError(t, ApplyMatchResult(db, u.ID, BattleDraw()))
	got = reload(t, db, u.ID)
	assert.Equal(t, 3, got.TotalMatches)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 275, got.Experience)

	require.NoError(t, ApplyMatchResult(db, u.ID, BattleLoss()))
	got = reload(t, db, u.ID)
	assert.Equal(t, 4, got.TotalMatches)
	assert.Equal(t, 2, got.Wins)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 325, got.Experience)
}

func TestApplyMatchResult_Solo(t *testing.T) {
	db := testdb.New(t, &User{})
	u := seedUser(t, db, "solo")

	require.NoError(t, ApplyMatchResult(db, u.ID, SoloResult(true)))
	require.NoError(t, ApplyMatchResult(db, u.ID, SoloResult(false)))
	got := reload(t, db, u.ID)
	assert.Equal(t, 2, got.TotalMatches)
	assert.Equal(t, 1, got.Wins)
	assert.Equal(t, 0, got.Experience)
	assert.Equal(t, 0, got.CurrentStreak)
}

func TestGormUserRepository(t *testing.T) {
	db := testdb.New(t, &User{})
	repo := NewUserRepository(db)

	email := "a@example.com"
	alice := &User{Username: "alice", Email: &email, Password: "x", Role: RoleUser}
	require.NoError(t, repo.CreateUser(alice))
	bob := seedUser(t, db, "bob")

	found, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, alice.ID, found.ID)

	missing, err := repo.GetUser(999)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	taken, err := repo.UsernameTaken("alice", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.UsernameTaken("alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	taken, err = repo.EmailTaken(email, bob.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	users, err := repo.GetUsers([]uint{alice.ID, bob.ID, 999})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "bob", users[bob.ID].Username)

	page, total, err := repo.ListUsers(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, bob.ID, page[0].ID)

	require.NoError(t, repo.DeleteUser(bob.ID))
	gone, err := repo.GetUser(bob.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestLockUser(t *testing.T) {
	db := testdb.New(t, &User{})
	u := seedUser(t, db, "locker")

	err := db.Transaction(func(tx *gorm.DB) error {
		return LockUser(tx, u.ID)
	})
	assert.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return LockUser(tx, 12345)
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
