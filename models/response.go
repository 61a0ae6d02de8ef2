package models

// ErrorResponse is a generic error response structure for API
type ErrorResponse struct {
	Message string `json:"message" example:"Error message describing the issue"`
	// Code int `json:"code,omitempty" example:"4002"` // Optional internal error code
}

// StatusResponse is a generic success acknowledgement for state-changing
// endpoints that have no richer body to return.
type StatusResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message,omitempty"`
}
