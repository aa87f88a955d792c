package db

import (
	"testing"

	"github.com/pawtrail/pawtrail/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleSaveAndReaction(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewEngagementRepo(gdb)

	owner := seedUser(t, gdb, "owner")
	fan := seedUser(t, gdb, "fan")
	announcement := seedAnnouncement(t, gdb, owner, models.StatusLost)

	saved, err := repo.ToggleSave(announcement.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = repo.ToggleSave(announcement.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	saved, err = repo.ToggleSave(announcement.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	liked, err := repo.ToggleReaction(announcement.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.ToggleReaction(announcement.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestComments(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewEngagementRepo(gdb)

	owner := seedUser(t, gdb, "owner")
	commenter := seedUser(t, gdb, "commenter")
	announcement := seedAnnouncement(t, gdb, owner, models.StatusFound)

	first := &models.Comment{AnnouncementID: announcement.ID, UserID: commenter.ID, Content: "looks like my dog"}
	require.NoError(t, repo.CreateComment(first))
	second := &models.Comment{AnnouncementID: announcement.ID, UserID: owner.ID, Content: "send me a picture"}
	require.NoError(t, repo.CreateComment(second))

	comments, err := repo.ListComments(announcement.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "looks like my dog", comments[0].Content)
	assert.Equal(t, "commenter", comments[0].User.Username)
	assert.Equal(t, "send me a picture", comments[1].Content)

	other := seedAnnouncement(t, gdb, owner, models.StatusFound)
	comments, err = repo.ListComments(other.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
