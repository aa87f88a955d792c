package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSetPresenceUpserts(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewPresenceRepo(gdb)

	user := seedUser(t, gdb, "piotr")

	_, err := repo.GetPresence(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	first := time.Now().Add(-time.Minute)
	require.NoError(t, repo.SetPresence(user.ID, true, first))
	presence, err := repo.GetPresence(user.ID)
	require.NoError(t, err)
	assert.True(t, presence.Online)

	// Going offline updates the row in place.
	require.NoError(t, repo.SetPresence(user.ID, false, time.Now()))
	presence, err = repo.GetPresence(user.ID)
	require.NoError(t, err)
	assert.False(t, presence.Online)
	assert.True(t, presence.LastSeenAt.After(first))

	online, err := repo.ListOnlineUsers()
	require.NoError(t, err)
	assert.Empty(t, online)

	other := seedUser(t, gdb, "marta")
	require.NoError(t, repo.SetPresence(other.ID, true, time.Now()))
	online, err = repo.ListOnlineUsers()
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, other.ID, online[0].UserID)
}
