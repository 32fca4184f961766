package admin_overrides

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// OverrideModel is the HTTP shape of a per-date override.
type OverrideModel struct {
	ID          int64   `json:"id,omitempty"`
	Date        string  `json:"date"`
	IsAvailable bool    `json:"isAvailable"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	Reason      *string `json:"reason,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// OverridesResponse is the HTTP list response.
type OverridesResponse struct {
	Overrides []OverrideModel `json:"overrides"`
}

// ToDomain converts the HTTP model, parsing the date.
func (m *OverrideModel) ToDomain() (*domain.AvailabilityOverride, error) {
	date, err := time.Parse(domain.DateFormat, m.Date)
	if err != nil {
		return nil, err
	}

	o := &domain.AvailabilityOverride{
		Date:        date,
		IsAvailable: m.IsAvailable,
		Reason:      m.Reason,
	}
	if m.StartTime != nil {
		t := types.TimeString(*m.StartTime)
		o.StartTime = &t
	}
	if m.EndTime != nil {
		t := types.TimeString(*m.EndTime)
		o.EndTime = &t
	}
	return o, nil
}

// FromDomain converts a stored override to the HTTP model.
func FromDomain(o *domain.AvailabilityOverride) OverrideModel {
	m := OverrideModel{
		ID:          o.ID,
		Date:        o.Date.Format(domain.DateFormat),
		IsAvailable: o.IsAvailable,
		Reason:      o.Reason,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
	if o.StartTime != nil {
		s := o.StartTime.String()
		m.StartTime = &s
	}
	if o.EndTime != nil {
		s := o.EndTime.String()
		m.EndTime = &s
	}
	return m
}
