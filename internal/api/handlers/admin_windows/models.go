package admin_windows

import (
	"github.com/bakesbycoral/bakesbycoral-sub000/internal/domain"
	"github.com/bakesbycoral/bakesbycoral-sub000/pkg/types"
)

// WindowModel is one weekday's hours in HTTP requests and responses.
type WindowModel struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}

// WindowsResponse is the HTTP response model.
type WindowsResponse struct {
	Windows []WindowModel `json:"windows"`
}

// ReplaceWindowsRequest is the HTTP request model for PUT.
type ReplaceWindowsRequest struct {
	Windows []WindowModel `json:"windows"`
}

// ToDomain converts request windows without validating them; validation is
// the service's job.
func (r *ReplaceWindowsRequest) ToDomain() []*domain.AvailabilityWindow {
	windows := make([]*domain.AvailabilityWindow, 0, len(r.Windows))
	for _, w := range r.Windows {
		windows = append(windows, &domain.AvailabilityWindow{
			DayOfWeek: w.DayOfWeek,
			StartTime: types.TimeString(w.StartTime),
			EndTime:   types.TimeString(w.EndTime),
			IsActive:  w.IsActive,
		})
	}
	return windows
}

// FromDomain converts domain windows to the HTTP model.
func FromDomain(windows []*domain.AvailabilityWindow) *WindowsResponse {
	resp := &WindowsResponse{Windows: make([]WindowModel, 0, len(windows))}
	for _, w := range windows {
		resp.Windows = append(resp.Windows, WindowModel{
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
			IsActive:  w.IsActive,
		})
	}
	return resp
}
