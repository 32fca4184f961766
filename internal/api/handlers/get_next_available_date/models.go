package get_next_available_date

// NextAvailableDateResponse is the HTTP response model.
type NextAvailableDateResponse struct {
	Type string `json:"type"`
	Date string `json:"date"`
}
