package measure

// Result is the outcome the PIM reports for one submitted family.
type Result struct {
	Code       string       `json:"code"`
	StatusCode int          `json:"status_code"`
	Message    string       `json:"message,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
}

// FieldError is a validation error on one property of a submitted family.
type FieldError struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}
