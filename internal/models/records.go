package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Records below mirror the agency API's JSON payloads. They are read-only
// snapshots as far as this service is concerned.

type Tour struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	Country              string    `json:"country"`
	Season               Season    `json:"season"`
	Type                 TourType  `json:"type"`
	Price                float64   `json:"price"`
	TotalSlots           int       `json:"totalSlots"`
	AvailableSlots       int       `json:"availableSlots"`
	StartDate            Timestamp `json:"startDate"`
	EndDate              Timestamp `json:"endDate"`
	Duration             int       `json:"duration"`
	IsRegistrationClosed bool      `json:"isRegistrationClosed"`
	CreatedAt            Timestamp `json:"createdAt"`
}

type Contact struct {
	ID                int64     `json:"id"`
	FullName          string    `json:"fullName"`
	PhoneNumber       string    `json:"phoneNumber,omitempty"`
	Email             string    `json:"email"`
	AgeGroup          AgeGroup  `json:"ageGroup"`
	Gender            Gender    `json:"gender"`
	PreferredTourType *TourType `json:"preferredTourType"`
	DiscountPercent   float64   `json:"discountPercent"`
	AdditionalInfo    *string   `json:"additionalInfo,omitempty"`
	IsClient          bool      `json:"isClient"`
	UserID            *int64    `json:"userId"`
	CreatedAt         Timestamp `json:"createdAt"`
}

// Tourist is a user account with the tourist role. Contact is nil when the
// account has no profile record yet.
type Tourist struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Contact   *Contact  `json:"contact"`
	CreatedAt Timestamp `json:"createdAt"`
}

type Application struct {
	ID          int64             `json:"id"`
	FullName    string            `json:"fullName"`
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	Email       string            `json:"email"`
	TourID      *int64            `json:"tourId"`
	UserID      *int64            `json:"userId"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   Timestamp         `json:"createdAt"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp accepts the date formats the agency API emits: RFC 3339,
// zone-less local date-times and plain dates.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
