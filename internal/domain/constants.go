package domain

// Default scheduling values, used when config omits them.
const (
	DefaultSlotCapacity        = 1
	DefaultSlotIntervalMinutes = 30
	DefaultScanHorizonDays     = 90
)

// Business validation bounds.
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 hours
	MinBufferMinutes   = 0
	MaxBufferMinutes   = 240
	MinDailyCap        = 1
	MaxSlotCapacity    = 100
	MaxNameLength      = 120
	MaxSlugLength      = 60
	MaxReasonLength    = 500
	MaxNotesLength     = 500
)

// Time format constants.
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Weekday bounds for availability windows (0 = Sunday .. 6 = Saturday,
// matching time.Weekday).
const (
	MinDayOfWeek = 0
	MaxDayOfWeek = 6
)
