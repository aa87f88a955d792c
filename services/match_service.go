package services

import (
	"log"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/pawtrail/pawtrail/db"
	apiError "github.com/pawtrail/pawtrail/errors"
	"github.com/pawtrail/pawtrail/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	// DefaultMatchThreshold is the minimum score a candidate must reach.
	DefaultMatchThreshold = 0.25
	// DefaultMatchLimit caps the number of returned candidates.
	DefaultMatchLimit = 10

	// Beyond this distance the location term contributes nothing.
	matchDistanceCutoffMeters = 10000.0
	// Beyond this many days apart the date term contributes nothing.
	matchDateCutoffDays = 30.0

	weightDistance    = 0.35
	weightPetType     = 0.20
	weightBreed       = 0.15
	weightColor       = 0.10
	weightDate        = 0.10
	weightDescription = 0.10
)

// MatchService scores lost announcements against found ones (and vice versa)
// to propose candidate reunions. Scoring is a pure function of the two
// announcements; the service only adds pool loading.
type MatchService interface {
	FindMatches(announcementID uint, threshold float64, limit int) ([]models.MatchCandidate, *apiError.Error)
}

// matchService struct
type matchService struct {
	announcementRepo db.AnnouncementRepository
}

// NewMatchService creates a new instance of MatchService
func NewMatchService(announcementRepo db.AnnouncementRepository) MatchService {
	return &matchService{announcementRepo: announcementRepo}
}

func (s *matchService) FindMatches(announcementID uint, threshold float64, limit int) ([]models.MatchCandidate, *apiError.Error) {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	source, err := s.announcementRepo.FindAnnouncementByID(announcementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("announcement not found", http.StatusNotFound)
		}
		log.Printf("unable to load announcement %d: %v", announcementID, err)
		return nil, apiError.ErrInternalServerError
	}

	// No location on the source means nothing to anchor distance against.
	if source.Location == nil {
		return []models.MatchCandidate{}, nil
	}

	pool, err := s.announcementRepo.ListMatchPool(models.OppositeStatus(source.Status), source.ID)
	if err != nil {
		log.Printf("unable to load match pool for announcement %d: %v", announcementID, err)
		return nil, apiError.ErrInternalServerError
	}

	return ScorePool(source, pool, threshold, limit), nil
}

// ScorePool scores every candidate, keeps those at or above threshold and
// returns them by descending score. Ties keep the pool's database order.
func ScorePool(source *models.Announcement, pool []models.Announcement, threshold float64, limit int) []models.MatchCandidate {
	matches := make([]models.MatchCandidate, 0, len(pool))
	for i := range pool {
		score := ScoreAnnouncements(source, &pool[i])
		if score >= threshold {
			matches = append(matches, models.MatchCandidate{Announcement: pool[i], Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// ScoreAnnouncements computes the weighted reunion score between a source and
// one candidate. Each term degrades to 0 on missing data instead of failing
// the whole candidate.
func ScoreAnnouncements(source, candidate *models.Announcement) float64 {
	if source == nil || candidate == nil {
		return 0
	}

	score := weightDistance * distanceTerm(source.Location, candidate.Location)

	if source.Pet.PetType == candidate.Pet.PetType {
		score += weightPetType
	}

	score += weightBreed * similarityRatio(strings.ToLower(source.Pet.Breed), strings.ToLower(candidate.Pet.Breed))
	score += weightColor * colorTerm(source.Pet.Color, candidate.Pet.Color)
	score += weightDate * dateTerm(source, candidate)
	score += weightDescription * similarityRatio(strings.ToLower(source.Description), strings.ToLower(candidate.Description))

	return score
}

func distanceTerm(a, b *models.Location) float64 {
	if a == nil || b == nil {
		return 0
	}
	distance := HaversineMeters(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	return math.Max(0, 1-distance/matchDistanceCutoffMeters)
}

func colorTerm(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}
	return 0
}

func dateTerm(a, b *models.Announcement) float64 {
	days := math.Abs(a.CreatedAt.Sub(b.CreatedAt).Hours() / 24)
	return math.Max(0, 1-days/matchDateCutoffDays)
}

// HaversineMeters is the great-circle distance between two coordinates.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusMeters = 6371000.0

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// similarityRatio is 2*LCS/(len(a)+len(b)) over runes, in [0,1]. Empty input
// on either side scores 0.
func similarityRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
