package services

import (
	"time"

	"tour-analytics/internal/models"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func day(n int) models.Timestamp {
	return models.NewTimestamp(base.AddDate(0, 0, n))
}

func tour(id int64, season models.Season, tourType models.TourType, created int) models.Tour {
	return models.Tour{
		ID:        id,
		Name:      "tour",
		Season:    season,
		Type:      tourType,
		CreatedAt: day(created),
	}
}

func application(id, tourID, userID int64, status models.ApplicationStatus) models.Application {
	return models.Application{
		ID:        id,
		TourID:    ptr(tourID),
		UserID:    ptr(userID),
		Status:    status,
		CreatedAt: day(int(id)),
	}
}

func tourist(id int64, gender models.Gender, age models.AgeGroup) models.Tourist {
	return models.Tourist{
		ID:       id,
		FullName: "tourist",
		Contact: &models.Contact{
			ID:       id,
			Gender:   gender,
			AgeGroup: age,
			IsClient: true,
			UserID:   ptr(id),
		},
	}
}

// approvedFor returns n approved applications for tourID.
func approvedFor(tourID int64, n int, nextID *int64) []models.Application {
	apps := make([]models.Application, 0, n)
	for range n {
		*nextID++
		apps = append(apps, application(*nextID, tourID, 1, models.StatusApproved))
	}
	return apps
}
