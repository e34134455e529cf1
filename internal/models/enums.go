package models

import "slices"

type Season string

const (
	SeasonWinter  Season = "WINTER"
	SeasonSpring  Season = "SPRING"
	SeasonSummer  Season = "SUMMER"
	SeasonAutumn  Season = "AUTUMN"
	SeasonAllYear Season = "ALL_YEAR"
)

var seasons = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonAutumn, SeasonAllYear}

// Seasons returns every season in display order.
func Seasons() []Season { return slices.Clone(seasons) }

func (s Season) Valid() bool { return slices.Contains(seasons, s) }

type TourType string

const (
	TourTypeBeach       TourType = "BEACH"
	TourTypeExcursion   TourType = "EXCURSION"
	TourTypeAdventure   TourType = "ADVENTURE"
	TourTypeSkiing      TourType = "SKIING"
	TourTypeCruise      TourType = "CRUISE"
	TourTypeCultural    TourType = "CULTURAL"
	TourTypeMedical     TourType = "MEDICAL"
	TourTypeEducational TourType = "EDUCATIONAL"
)

var tourTypes = []TourType{
	TourTypeBeach, TourTypeExcursion, TourTypeAdventure, TourTypeSkiing,
	TourTypeCruise, TourTypeCultural, TourTypeMedical, TourTypeEducational,
}

// TourTypes returns every tour type in display order.
func TourTypes() []TourType { return slices.Clone(tourTypes) }

func (t TourType) Valid() bool { return slices.Contains(tourTypes, t) }

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var genders = []Gender{GenderMale, GenderFemale, GenderOther}

func Genders() []Gender { return slices.Clone(genders) }

func (g Gender) Valid() bool { return slices.Contains(genders, g) }

type AgeGroup string

const (
	AgeUnder18 AgeGroup = "UNDER_18"
	Age18To20  AgeGroup = "AGE_18_20"
	Age21To25  AgeGroup = "AGE_21_25"
	Age26To35  AgeGroup = "AGE_26_35"
	Age36To50  AgeGroup = "AGE_36_50"
	AgeOver50  AgeGroup = "OVER_50"
)

var ageGroups = []AgeGroup{AgeUnder18, Age18To20, Age21To25, Age26To35, Age36To50, AgeOver50}

func AgeGroups() []AgeGroup { return slices.Clone(ageGroups) }

func (a AgeGroup) Valid() bool { return slices.Contains(ageGroups, a) }

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "PENDING"
	StatusApproved  ApplicationStatus = "APPROVED"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusCancelled ApplicationStatus = "CANCELLED"
)

var statuses = []ApplicationStatus{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

func ApplicationStatuses() []ApplicationStatus { return slices.Clone(statuses) }

func (s ApplicationStatus) Valid() bool { return slices.Contains(statuses, s) }

// Trend is the direction reported by a split-half trend estimate.
type Trend string

const (
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

var seasonLabels = map[Season]string{
	SeasonWinter:  "Winter",
	SeasonSpring:  "Spring",
	SeasonSummer:  "Summer",
	SeasonAutumn:  "Autumn",
	SeasonAllYear: "All year",
}

var tourTypeLabels = map[TourType]string{
	TourTypeBeach:       "Beach",
	TourTypeExcursion:   "Excursion",
	TourTypeAdventure:   "Adventure",
	TourTypeSkiing:      "Skiing",
	TourTypeCruise:      "Cruise",
	TourTypeCultural:    "Cultural",
	TourTypeMedical:     "Medical",
	TourTypeEducational: "Educational",
}

var genderLabels = map[Gender]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderOther:  "Other",
}

var ageGroupLabels = map[AgeGroup]string{
	AgeUnder18: "Under 18",
	Age18To20:  "18-20",
	Age21To25:  "21-25",
	Age26To35:  "26-35",
	Age36To50:  "36-50",
	AgeOver50:  "Over 50",
}

var statusLabels = map[ApplicationStatus]string{
	StatusPending:   "Pending",
	StatusApproved:  "Approved",
	StatusRejected:  "Rejected",
	StatusCancelled: "Cancelled",
}

var trendLabels = map[Trend]string{
	TrendIncreasing:       "Increasing",
	TrendDecreasing:       "Decreasing",
	TrendStable:           "Stable",
	TrendInsufficientData: "Not enough data",
}

func (s Season) Label() string { return labelOr(seasonLabels, s) }
func (t TourType) Label() string { return labelOr(tourTypeLabels, t) }
func (g Gender) Label() string { return labelOr(genderLabels, g) }
func (a AgeGroup) Label() string { return labelOr(ageGroupLabels, a) }
func (s ApplicationStatus) Label() string { return labelOr(statusLabels, s) }
func (t Trend) Label() string { return labelOr(trendLabels, t) }

func labelOr[K ~string](labels map[K]string, k K) string {
	if label, ok := labels[k]; ok {
		return label
	}
	return string(k)
}
