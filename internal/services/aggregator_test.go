package services

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-analytics/internal/models"
)

func assertKeys[K ~string](t *testing.T, want []K, got models.CountMap[K]) {
	t.Helper()
	keys := make([]K, 0, len(got))
	for k, n := range got {
		keys = append(keys, k)
		assert.GreaterOrEqual(t, n, 0, "bucket %s", k)
	}
	assert.ElementsMatch(t, want, keys)
}

func TestComputeClientAnalytics_Empty(t *testing.T) {
	got := ComputeClientAnalytics(nil, nil, nil)

	assertKeys(t, models.Genders(), got.GenderDistribution)
	assertKeys(t, models.AgeGroups(), got.AgeDistribution)
	assertKeys(t, models.TourTypes(), got.PreferredTourTypeDistribution)
	assert.Zero(t, got.GenderDistribution.Total())
	assert.Zero(t, got.ClientsVsContacts.Clients)
	assert.Zero(t, got.RegularClients.Count)
	assert.False(t, math.IsNaN(got.RegularClients.Percentage))
	assert.Zero(t, got.RegularClients.Percentage)
}

func TestComputeClientAnalytics(t *testing.T) {
	beach := models.TourTypeBeach
	tourists := []models.Tourist{
		tourist(1, models.GenderFemale, models.Age26To35),
		tourist(2, models.GenderMale, models.Age36To50),
		tourist(3, models.GenderFemale, models.Age18To20),
		{ID: 4, FullName: "no profile"},
	}
	tourists[0].Contact.PreferredTourType = &beach

	contacts := []models.Contact{
		{ID: 1, IsClient: true},
		{ID: 2, IsClient: false},
		{ID: 3, IsClient: false},
	}

	var apps []models.Application
	for i := range int64(3) {
		apps = append(apps, application(10+i, 100, 1, models.StatusPending))
	}
	apps = append(apps,
		application(20, 100, 2, models.StatusApproved),
		application(21, 100, 2, models.StatusApproved),
		models.Application{ID: 22, Status: models.StatusPending},
	)

	got := ComputeClientAnalytics(tourists, contacts, apps)

	assert.Equal(t, models.ClientsVsContacts{Clients: 4, Contacts: 2}, got.ClientsVsContacts)
	assert.Equal(t, 2, got.GenderDistribution[models.GenderFemale])
	assert.Equal(t, 1, got.GenderDistribution[models.GenderMale])
	assert.Equal(t, 0, got.GenderDistribution[models.GenderOther])
	assert.Equal(t, 1, got.AgeDistribution[models.Age26To35])
	assert.Equal(t, 1, got.PreferredTourTypeDistribution[models.TourTypeBeach])
	assert.Equal(t, 1, got.PreferredTourTypeDistribution.Total())

	assert.Equal(t, 1, got.RegularClients.Count)
	assert.InDelta(t, 25, got.RegularClients.Percentage, 1e-9)
}

func TestComputeClientAnalytics_DoesNotMutateInputs(t *testing.T) {
	tourists := []models.Tourist{tourist(1, models.GenderOther, models.AgeOver50)}
	apps := []models.Application{application(1, 1, 1, models.StatusApproved)}
	touristsBefore := slices.Clone(tourists)
	contactBefore := *tourists[0].Contact
	appsBefore := slices.Clone(apps)

	ComputeClientAnalytics(tourists, nil, apps)
	ComputeApplicationAnalytics(apps, nil, tourists)

	assert.Equal(t, touristsBefore, tourists)
	assert.Equal(t, contactBefore, *tourists[0].Contact)
	assert.Equal(t, appsBefore, apps)
}

func TestComputeTourAnalytics_Empty(t *testing.T) {
	got := ComputeTourAnalytics(nil, nil)

	assertKeys(t, models.Seasons(), got.SeasonDistribution)
	assertKeys(t, models.TourTypes(), got.TypeDistribution)
	require.Len(t, got.SeasonTrends, len(models.Seasons()))
	require.Len(t, got.TypeTrends, len(models.TourTypes()))
	for season, est := range got.SeasonTrends {
		assert.Equal(t, models.TrendEstimate{Trend: models.TrendInsufficientData}, est, "season %s", season)
	}
	for tourType, est := range got.TypeTrends {
		assert.Equal(t, models.TrendEstimate{Trend: models.TrendInsufficientData}, est, "type %s", tourType)
	}
}

func TestComputeTourAnalytics_SplitHalfTrend(t *testing.T) {
	// Created out of order; chronological approved counts are [1,1,5,5].
	tours := []models.Tour{
		tour(3, models.SeasonSummer, models.TourTypeBeach, 3),
		tour(1, models.SeasonSummer, models.TourTypeBeach, 1),
		tour(4, models.SeasonSummer, models.TourTypeCruise, 4),
		tour(2, models.SeasonSummer, models.TourTypeBeach, 2),
		tour(5, models.SeasonWinter, models.TourTypeSkiing, 5),
	}

	var nextID int64
	var apps []models.Application
	apps = append(apps, approvedFor(1, 1, &nextID)...)
	apps = append(apps, approvedFor(2, 1, &nextID)...)
	apps = append(apps, approvedFor(3, 5, &nextID)...)
	apps = append(apps, approvedFor(4, 5, &nextID)...)
	apps = append(apps, approvedFor(5, 7, &nextID)...)
	// Only approved applications feed the trend.
	apps = append(apps,
		application(900, 1, 1, models.StatusPending),
		application(901, 1, 1, models.StatusRejected),
	)

	got := ComputeTourAnalytics(tours, apps)

	assert.Equal(t, 4, got.SeasonDistribution[models.SeasonSummer])
	assert.Equal(t, 1, got.SeasonDistribution[models.SeasonWinter])
	assert.Equal(t, 0, got.SeasonDistribution[models.SeasonAllYear])
	assert.Equal(t, 3, got.TypeDistribution[models.TourTypeBeach])

	summer := got.SeasonTrends[models.SeasonSummer]
	assert.Equal(t, models.TrendIncreasing, summer.Trend)
	assert.InDelta(t, 400, summer.Percentage, 1e-9)
	assert.InDelta(t, 5, summer.Average, 1e-9)

	// Beach holds [1,1,5]: first half [1], second half [1,5].
	beach := got.TypeTrends[models.TourTypeBeach]
	assert.Equal(t, models.TrendIncreasing, beach.Trend)
	assert.InDelta(t, 200, beach.Percentage, 1e-9)

	winter := got.SeasonTrends[models.SeasonWinter]
	assert.Equal(t, models.TrendInsufficientData, winter.Trend)
	assert.Zero(t, winter.Percentage)
	assert.Zero(t, winter.Average)
}

func TestComputeTourAnalytics_UnknownEnumIgnored(t *testing.T) {
	tours := []models.Tour{tour(1, models.Season("MONSOON"), models.TourType("SPACE"), 1)}

	got := ComputeTourAnalytics(tours, nil)

	assertKeys(t, models.Seasons(), got.SeasonDistribution)
	assertKeys(t, models.TourTypes(), got.TypeDistribution)
	assert.Zero(t, got.SeasonDistribution.Total())
}

func TestComputeApplicationAnalytics_CrossTab(t *testing.T) {
	tours := []models.Tour{tour(1, models.SeasonSummer, models.TourTypeBeach, 1)}
	tourists := []models.Tourist{tourist(7, models.GenderFemale, models.Age26To35)}
	apps := []models.Application{application(1, 1, 7, models.StatusApproved)}

	got := ComputeApplicationAnalytics(apps, tours, tourists)

	for _, season := range models.Seasons() {
		assertKeys(t, models.Genders(), got.SeasonGenderDistribution[season])
		for _, gender := range models.Genders() {
			want := 0
			if season == models.SeasonSummer && gender == models.GenderFemale {
				want = 1
			}
			assert.Equal(t, want, got.SeasonGenderDistribution[season][gender], "%s/%s", season, gender)
		}
	}
	for _, tourType := range models.TourTypes() {
		assertKeys(t, models.AgeGroups(), got.TypeAgeDistribution[tourType])
		for _, age := range models.AgeGroups() {
			want := 0
			if tourType == models.TourTypeBeach && age == models.Age26To35 {
				want = 1
			}
			assert.Equal(t, want, got.TypeAgeDistribution[tourType][age], "%s/%s", tourType, age)
		}
	}
	assert.Len(t, got.SeasonGenderDistribution, len(models.Seasons()))
	assert.Len(t, got.TypeAgeDistribution, len(models.TourTypes()))
}

func TestComputeApplicationAnalytics_UnresolvedJoins(t *testing.T) {
	tours := []models.Tour{tour(1, models.SeasonAutumn, models.TourTypeCultural, 1)}
	tourists := []models.Tourist{
		tourist(1, models.GenderMale, models.Age21To25),
		{ID: 2, FullName: "no contact"},
	}
	apps := []models.Application{
		application(1, 1, 1, models.StatusApproved),
		application(2, 99, 1, models.StatusPending),
		application(3, 1, 2, models.StatusRejected),
		application(4, 1, 42, models.StatusCancelled),
		{ID: 5, Status: models.StatusPending},
	}

	got := ComputeApplicationAnalytics(apps, tours, tourists)

	assert.Equal(t, 5, got.StatusDistribution.Total())
	assert.Equal(t, 2, got.StatusDistribution[models.StatusPending])
	// Applications 2 and 5 have no resolvable tour.
	assert.Equal(t, 3, got.SeasonDistribution[models.SeasonAutumn])
	assert.Equal(t, 3, got.TypeDistribution.Total())
	// Only application 1 resolves both tour and contact.
	assert.Equal(t, 1, got.SeasonGenderDistribution[models.SeasonAutumn][models.GenderMale])
	assert.Equal(t, 1, got.SeasonGenderDistribution[models.SeasonAutumn].Total())
	assert.Equal(t, 1, got.TypeAgeDistribution[models.TourTypeCultural][models.Age21To25])
}

func TestComputeApplicationAnalytics_Empty(t *testing.T) {
	got := ComputeApplicationAnalytics(nil, nil, nil)

	assertKeys(t, models.ApplicationStatuses(), got.StatusDistribution)
	assertKeys(t, models.Seasons(), got.SeasonDistribution)
	assertKeys(t, models.TourTypes(), got.TypeDistribution)
	assert.Len(t, got.SeasonGenderDistribution, len(models.Seasons()))
	assert.Len(t, got.TypeAgeDistribution, len(models.TourTypes()))
}

func TestPercentOf(t *testing.T) {
	assert.Zero(t, percentOf(5, 0))
	assert.InDelta(t, 50, percentOf(1, 2), 1e-9)
}
