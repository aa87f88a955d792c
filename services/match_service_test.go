package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/pawtrail/pawtrail/db"
	"github.com/pawtrail/pawtrail/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchAnnouncement(status string, lat, lon float64, pet models.Pet, createdAt time.Time) models.Announcement {
	return models.Announcement{
		Model:    models.Model{CreatedAt: createdAt},
		Status:   status,
		Pet:      pet,
		Location: &models.Location{Latitude: lat, Longitude: lon},
	}
}

func TestScoreAnnouncementsCoLocatedSameDay(t *testing.T) {
	now := time.Now()
	pet := models.Pet{PetType: models.PetTypeDog}
	source := matchAnnouncement(models.StatusLost, 52.2297, 21.0122, pet, now)
	candidate := matchAnnouncement(models.StatusFound, 52.2297, 21.0122, pet, now)

	// Distance, pet type and date at full value; empty breed, color and
	// description contribute nothing rather than counting as equal.
	assert.InDelta(t, 0.65, ScoreAnnouncements(&source, &candidate), 1e-9)

	withColor := candidate
	withColor.Pet.Color = "black"
	sourceWithColor := source
	sourceWithColor.Pet.Color = "black"
	assert.InDelta(t, 0.75, ScoreAnnouncements(&sourceWithColor, &withColor), 1e-9)
}

func TestScoreAnnouncementsDistanceDecay(t *testing.T) {
	now := time.Now()
	pet := models.Pet{PetType: models.PetTypeCat}
	source := matchAnnouncement(models.StatusLost, 52.2297, 21.0122, pet, now)

	// Roughly 15km north of the source, past the 10km cutoff.
	far := matchAnnouncement(models.StatusFound, 52.3646, 21.0122, pet, now)
	assert.InDelta(t, 0.30, ScoreAnnouncements(&source, &far), 1e-9)

	// Missing candidate location zeroes only the distance term.
	noLocation := far
	noLocation.Location = nil
	assert.InDelta(t, 0.30, ScoreAnnouncements(&source, &noLocation), 1e-9)
}

func TestScoreAnnouncementsDateDecay(t *testing.T) {
	now := time.Now()
	pet := models.Pet{PetType: models.PetTypeDog}
	source := matchAnnouncement(models.StatusLost, 52.0, 21.0, pet, now)

	stale := matchAnnouncement(models.StatusFound, 52.0, 21.0, pet, now.AddDate(0, 0, -60))
	fresh := matchAnnouncement(models.StatusFound, 52.0, 21.0, pet, now.AddDate(0, 0, -15))

	assert.InDelta(t, 0.55, ScoreAnnouncements(&source, &stale), 1e-9)
	assert.InDelta(t, 0.60, ScoreAnnouncements(&source, &fresh), 1e-9)
}

func TestScoreAnnouncementsColorSubstring(t *testing.T) {
	now := time.Now()
	source := matchAnnouncement(models.StatusLost, 52.0, 21.0, models.Pet{PetType: models.PetTypeDog, Color: "Black"}, now)
	candidate := matchAnnouncement(models.StatusFound, 52.0, 21.0, models.Pet{PetType: models.PetTypeDog, Color: "black and white"}, now)

	assert.InDelta(t, 0.75, ScoreAnnouncements(&source, &candidate), 1e-9)
}

func TestScorePoolFiltersSortsAndTruncates(t *testing.T) {
	now := time.Now()
	dog := models.Pet{PetType: models.PetTypeDog, Color: "black"}
	cat := models.Pet{PetType: models.PetTypeCat}
	source := matchAnnouncement(models.StatusLost, 52.0, 21.0, dog, now)

	pool := []models.Announcement{
		matchAnnouncement(models.StatusFound, 52.3646, 21.0122, cat, now.AddDate(0, 0, -60)),
		matchAnnouncement(models.StatusFound, 52.0, 21.0, dog, now),
		matchAnnouncement(models.StatusFound, 52.0, 21.0, cat, now),
	}
	pool[0].Model.ID = 1
	pool[1].Model.ID = 2
	pool[2].Model.ID = 3

	matches := ScorePool(&source, pool, DefaultMatchThreshold, DefaultMatchLimit)
	require.Len(t, matches, 2)
	assert.Equal(t, uint(2), matches[0].Announcement.ID)
	assert.Equal(t, uint(3), matches[1].Announcement.ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)

	matches = ScorePool(&source, pool, DefaultMatchThreshold, 1)
	require.Len(t, matches, 1)
	assert.Equal(t, uint(2), matches[0].Announcement.ID)

	// A threshold above every score yields an empty, non-nil slice.
	matches = ScorePool(&source, pool, 0.99, DefaultMatchLimit)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestFindMatches(t *testing.T) {
	f := newFixture(t)
	matcher := NewMatchService(db.NewAnnouncementRepo(f.gdb))

	owner := f.user(t, "marta")
	finder := f.user(t, "piotr")

	_, apiErr := matcher.FindMatches(9999, 0, 0)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	// A source without coordinates has nothing to match against.
	unanchored := f.announcement(t, owner, models.StatusLost, "Burek")
	matches, apiErr := matcher.FindMatches(unanchored.ID, 0, 0)
	require.Nil(t, apiErr)
	assert.Empty(t, matches)

	lost := &models.Announcement{
		OwnerID:  owner.ID,
		Status:   models.StatusLost,
		Pet:      models.Pet{Name: "Burek", PetType: models.PetTypeDog, Color: "black"},
		Location: &models.Location{Latitude: 52.2297, Longitude: 21.0122},
	}
	require.NoError(t, f.gdb.DB.Create(lost).Error)

	found := &models.Announcement{
		OwnerID:  finder.ID,
		Status:   models.StatusFound,
		Pet:      models.Pet{Name: "unknown", PetType: models.PetTypeDog, Color: "black"},
		Location: &models.Location{Latitude: 52.2300, Longitude: 21.0130},
	}
	require.NoError(t, f.gdb.DB.Create(found).Error)

	// Same status never matches.
	alsoLost := &models.Announcement{
		OwnerID:  finder.ID,
		Status:   models.StatusLost,
		Pet:      models.Pet{Name: "Azor", PetType: models.PetTypeDog, Color: "black"},
		Location: &models.Location{Latitude: 52.2297, Longitude: 21.0122},
	}
	require.NoError(t, f.gdb.DB.Create(alsoLost).Error)

	matches, apiErr = matcher.FindMatches(lost.ID, 0, 0)
	require.Nil(t, apiErr)
	require.Len(t, matches, 1)
	assert.Equal(t, found.ID, matches[0].Announcement.ID)
	assert.Greater(t, matches[0].Score, DefaultMatchThreshold)
}

func TestSimilarityRatio(t *testing.T) {
	assert.Zero(t, similarityRatio("", "labrador"))
	assert.Zero(t, similarityRatio("labrador", ""))
	assert.Equal(t, 1.0, similarityRatio("labrador", "labrador"))
	assert.InDelta(t, 0.5, similarityRatio("ab", "ac"), 1e-9)
	assert.Greater(t, similarityRatio("labrador", "labrador retriever"), similarityRatio("labrador", "beagle"))
}

func TestHaversineMeters(t *testing.T) {
	assert.Zero(t, HaversineMeters(52.0, 21.0, 52.0, 21.0))

	// One degree of latitude is about 111km.
	d := HaversineMeters(52.0, 21.0, 53.0, 21.0)
	assert.InDelta(t, 111195, d, 200)
}
