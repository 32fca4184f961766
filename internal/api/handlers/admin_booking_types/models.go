package admin_booking_types

import (
	"time"

	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
)

// BookingTypeModel is the HTTP shape of a booking type.
type BookingTypeModel struct {
	ID                 int64  `json:"id,omitempty"`
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	DurationMinutes    int    `json:"durationMinutes"`
	BufferAfterMinutes int    `json:"bufferAfterMinutes"`
	MaxBookingsPerDay  *int   `json:"maxBookingsPerDay,omitempty"`
	RequiresApproval   bool   `json:"requiresApproval"`
	IsActive           bool   `json:"isActive"`
	CreatedAt          string `json:"createdAt,omitempty"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

// BookingTypesResponse is the HTTP list response.
type BookingTypesResponse struct {
	BookingTypes []BookingTypeModel `json:"bookingTypes"`
}

// ToDomain converts the HTTP model for upsert.
func (m *BookingTypeModel) ToDomain() *domain.BookingType {
	return &domain.BookingType{
		ID:                 m.ID,
		Name:               m.Name,
		Slug:               m.Slug,
		DurationMinutes:    m.DurationMinutes,
		BufferAfterMinutes: m.BufferAfterMinutes,
		MaxBookingsPerDay:  m.MaxBookingsPerDay,
		RequiresApproval:   m.RequiresApproval,
		IsActive:           m.IsActive,
	}
}

// FromDomain converts a stored booking type to the HTTP model.
func FromDomain(bt *domain.BookingType) BookingTypeModel {
	return BookingTypeModel{
		ID:                 bt.ID,
		Name:               bt.Name,
		Slug:               bt.Slug,
		DurationMinutes:    bt.DurationMinutes,
		BufferAfterMinutes: bt.BufferAfterMinutes,
		MaxBookingsPerDay:  bt.MaxBookingsPerDay,
		RequiresApproval:   bt.RequiresApproval,
		IsActive:           bt.IsActive,
		CreatedAt:          bt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          bt.UpdatedAt.Format(time.RFC3339),
	}
}
