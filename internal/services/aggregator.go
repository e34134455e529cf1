package services

import "tour-analytics/internal/models"

// regularClientThreshold is the number of applications that makes a
// tourist a regular client.
const regularClientThreshold = 3

// ComputeClientAnalytics groups tourists and contacts by their demographic
// fields. Tourists without an embedded contact count as clients but add
// nothing to the demographic distributions.
func ComputeClientAnalytics(tourists []models.Tourist, contacts []models.Contact, applications []models.Application) models.ClientAnalytics {
	result := models.ClientAnalytics{
		ClientsVsContacts: models.ClientsVsContacts{
			Clients: len(tourists),
		},
		GenderDistribution:            models.NewGenderCounts(),
		AgeDistribution:               models.NewAgeGroupCounts(),
		PreferredTourTypeDistribution: models.NewTourTypeCounts(),
	}

	for _, c := range contacts {
		if !c.IsClient {
			result.ClientsVsContacts.Contacts++
		}
	}

	for _, t := range tourists {
		if t.Contact == nil {
			continue
		}
		result.GenderDistribution.Inc(t.Contact.Gender)
		result.AgeDistribution.Inc(t.Contact.AgeGroup)
		if t.Contact.PreferredTourType != nil {
			result.PreferredTourTypeDistribution.Inc(*t.Contact.PreferredTourType)
		}
	}

	perTourist := make(map[int64]int)
	for _, app := range applications {
		if app.UserID != nil {
			perTourist[*app.UserID]++
		}
	}
	for _, t := range tourists {
		if perTourist[t.ID] >= regularClientThreshold {
			result.RegularClients.Count++
		}
	}
	result.RegularClients.Percentage = percentOf(result.RegularClients.Count, result.ClientsVsContacts.Clients)

	return result
}

// ComputeTourAnalytics counts tours per season and type and estimates a
// popularity trend for every bucket from approved applications.
func ComputeTourAnalytics(tours []models.Tour, applications []models.Application) models.TourAnalytics {
	approved := make(map[int64]int)
	for _, app := range applications {
		if app.Status == models.StatusApproved && app.TourID != nil {
			approved[*app.TourID]++
		}
	}

	result := models.TourAnalytics{
		SeasonDistribution: models.NewSeasonCounts(),
		TypeDistribution:   models.NewTourTypeCounts(),
		SeasonTrends:       make(map[models.Season]models.TrendEstimate),
		TypeTrends:         make(map[models.TourType]models.TrendEstimate),
	}

	bySeason := make(map[models.Season][]trendSample)
	byType := make(map[models.TourType][]trendSample)
	for _, tour := range tours {
		sample := trendSample{createdAt: tour.CreatedAt.Time, approved: approved[tour.ID]}
		if result.SeasonDistribution.Inc(tour.Season) {
			bySeason[tour.Season] = append(bySeason[tour.Season], sample)
		}
		if result.TypeDistribution.Inc(tour.Type) {
			byType[tour.Type] = append(byType[tour.Type], sample)
		}
	}

	for _, season := range models.Seasons() {
		result.SeasonTrends[season] = estimateTrend(bySeason[season])
	}
	for _, tourType := range models.TourTypes() {
		result.TypeTrends[tourType] = estimateTrend(byType[tourType])
	}

	return result
}

// ComputeApplicationAnalytics counts applications by status and, through
// the referenced tour and the applicant's contact, by season, type and the
// season×gender and type×age cross-tabulations. An application whose tour
// or contact cannot be resolved still counts towards the status
// distribution; it is skipped only where the missing side is needed.
func ComputeApplicationAnalytics(applications []models.Application, tours []models.Tour, tourists []models.Tourist) models.ApplicationAnalytics {
	result := models.ApplicationAnalytics{
		StatusDistribution:       models.NewStatusCounts(),
		SeasonDistribution:       models.NewSeasonCounts(),
		TypeDistribution:         models.NewTourTypeCounts(),
		SeasonGenderDistribution: models.NewSeasonGenderTab(),
		TypeAgeDistribution:      models.NewTypeAgeTab(),
	}

	toursByID := make(map[int64]*models.Tour, len(tours))
	for i := range tours {
		toursByID[tours[i].ID] = &tours[i]
	}
	contactsByUser := make(map[int64]*models.Contact, len(tourists))
	for _, t := range tourists {
		if t.Contact != nil {
			contactsByUser[t.ID] = t.Contact
		}
	}

	for _, app := range applications {
		result.StatusDistribution.Inc(app.Status)

		tour := lookup(toursByID, app.TourID)
		if tour == nil {
			continue
		}
		result.SeasonDistribution.Inc(tour.Season)
		result.TypeDistribution.Inc(tour.Type)

		contact := lookup(contactsByUser, app.UserID)
		if contact == nil {
			continue
		}
		result.SeasonGenderDistribution.Inc(tour.Season, contact.Gender)
		result.TypeAgeDistribution.Inc(tour.Type, contact.AgeGroup)
	}

	return result
}

func lookup[V any](index map[int64]*V, id *int64) *V {
	if id == nil {
		return nil
	}
	return index[*id]
}

// percentOf returns part/whole as a percentage, or 0 when whole is 0.
func percentOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
