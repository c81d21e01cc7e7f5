package domain

// EmailResult is the outcome of a work email lookup.
// A lookup without a match carries only Message.
type EmailResult struct {
	Email   string `json:"email,omitempty"`
	Valid   *bool  `json:"valid,omitempty"`
	Success bool   `json:"success,omitempty"`
	Score   int    `json:"score,omitempty"`
	Message string `json:"message,omitempty"`
}

// EmailNotFound is the message used when the finder has no address for the person.
const EmailNotFound = "Email not found"
