package models

import "time"

// CountMap holds a count for every member of a closed enum. Build it with
// NewCountMap so that every bucket exists from the start; Inc never adds
// keys, which keeps the key set equal to the enum.
type CountMap[K ~string] map[K]int

func NewCountMap[K ~string](keys []K) CountMap[K] {
	m := make(CountMap[K], len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}

// Inc adds one to k and reports whether k belongs to the map's domain.
func (m CountMap[K]) Inc(k K) bool {
	if _, ok := m[k]; !ok {
		return false
	}
	m[k]++
	return true
}

func (m CountMap[K]) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// CrossTab is a two-dimensional CountMap with every cell pre-initialised.
type CrossTab[R ~string, C ~string] map[R]CountMap[C]

func NewCrossTab[R ~string, C ~string](rows []R, cols []C) CrossTab[R, C] {
	t := make(CrossTab[R, C], len(rows))
	for _, r := range rows {
		t[r] = NewCountMap(cols)
	}
	return t
}

func (t CrossTab[R, C]) Inc(r R, c C) bool {
	row, ok := t[r]
	if !ok {
		return false
	}
	return row.Inc(c)
}

func NewSeasonCounts() CountMap[Season] { return NewCountMap(seasons) }
func NewTourTypeCounts() CountMap[TourType] { return NewCountMap(tourTypes) }
func NewGenderCounts() CountMap[Gender] { return NewCountMap(genders) }
func NewAgeGroupCounts() CountMap[AgeGroup] { return NewCountMap(ageGroups) }
func NewStatusCounts() CountMap[ApplicationStatus] { return NewCountMap(statuses) }
func NewSeasonGenderTab() CrossTab[Season, Gender] { return NewCrossTab(seasons, genders) }
func NewTypeAgeTab() CrossTab[TourType, AgeGroup] { return NewCrossTab(tourTypes, ageGroups) }

type TrendEstimate struct {
	Trend      Trend   `json:"trend"`
	Percentage float64 `json:"percentage"`
	// Average is the mean approved-application count of the most recent window.
	Average float64 `json:"average"`
}

type ClientsVsContacts struct {
	Clients  int `json:"clients"`
	Contacts int `json:"contacts"`
}

type RegularClients struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ClientAnalytics struct {
	ClientsVsContacts             ClientsVsContacts  `json:"clients_vs_contacts"`
	GenderDistribution            CountMap[Gender]   `json:"gender_distribution"`
	AgeDistribution               CountMap[AgeGroup] `json:"age_distribution"`
	PreferredTourTypeDistribution CountMap[TourType] `json:"preferred_tour_type_distribution"`
	RegularClients                RegularClients     `json:"regular_clients"`
}

type TourAnalytics struct {
	SeasonDistribution CountMap[Season]           `json:"season_distribution"`
	TypeDistribution   CountMap[TourType]         `json:"type_distribution"`
	SeasonTrends       map[Season]TrendEstimate   `json:"season_trends"`
	TypeTrends         map[TourType]TrendEstimate `json:"type_trends"`
}

type ApplicationAnalytics struct {
	StatusDistribution       CountMap[ApplicationStatus]  `json:"status_distribution"`
	SeasonDistribution       CountMap[Season]             `json:"season_distribution"`
	TypeDistribution         CountMap[TourType]           `json:"type_distribution"`
	SeasonGenderDistribution CrossTab[Season, Gender]     `json:"season_gender_distribution"`
	TypeAgeDistribution      CrossTab[TourType, AgeGroup] `json:"type_age_distribution"`
}

type SeasonGenderCell struct {
	Season Season `json:"season"`
	Gender Gender `json:"gender"`
	Count  int    `json:"count"`
}

type TypeAgeCell struct {
	TourType TourType `json:"tour_type"`
	AgeGroup AgeGroup `json:"age_group"`
	Count    int      `json:"count"`
}

type GenderShare struct {
	Gender     Gender  `json:"gender"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SeasonTotal struct {
	Season Season `json:"season"`
	Count  int    `json:"count"`
}

// MixedInsights summarises the two cross-tabulations. Pointer fields are
// nil when there is nothing to report.
type MixedInsights struct {
	MostActiveSeasonGender *SeasonGenderCell `json:"most_active_season_gender,omitempty"`
	DominantGender         GenderShare       `json:"dominant_gender"`
	MostPopularTypeAge     *TypeAgeCell      `json:"most_popular_type_age,omitempty"`
	PeakSeason             *SeasonTotal      `json:"peak_season,omitempty"`
	TotalApplications      int               `json:"total_applications"`
	InsufficientData       bool              `json:"insufficient_data"`
	SmallSample            bool              `json:"small_sample"`
}

type RecordCounts struct {
	Tours        int `json:"tours"`
	Contacts     int `json:"contacts"`
	Tourists     int `json:"tourists"`
	Applications int `json:"applications"`
}

// Snapshot is one complete, consistent aggregation over a single fetch of
// all upstream collections.
type Snapshot struct {
	Clients      ClientAnalytics      `json:"clients"`
	Tours        TourAnalytics        `json:"tours"`
	Applications ApplicationAnalytics `json:"applications"`
	Insights     MixedInsights        `json:"insights"`
	Records      RecordCounts         `json:"records"`
	GeneratedAt  time.Time            `json:"generated_at"`
}
