package models

import "time"

// SubmissionRecord is one stored survey response. Email and the consent
// timestamp are only present while contact consent is held: consent
// withdrawal and erasure null them out together.
type SubmissionRecord struct {
	ID                int64      `json:"id"`
	CreatedAt         time.Time  `json:"created_at"`
	Building          string     `json:"building"`
	Apartment         string     `json:"apartment,omitempty"`
	ParkingSpot       string     `json:"parking_spot,omitempty"`
	Status            string     `json:"status"`
	HasEV             string     `json:"has_ev"`
	Interested        string     `json:"interested"`
	PreferredSolution string     `json:"preferred_solution,omitempty"`
	Timeline          string     `json:"timeline,omitempty"`
	Comments          string     `json:"comments,omitempty"`
	Email             *string    `json:"email,omitempty"`
	ConsentContact    bool       `json:"consent_contact"`
	ConsentTimestamp  *time.Time `json:"consent_timestamp,omitempty"`
	IPAddress         string     `json:"-"`
	UserAgent         string     `json:"-"`
	SubmissionHash    string     `json:"-"`
}

// SubmissionInput is the wire format of a survey submission.
type SubmissionInput struct {
	Building          string `json:"building" validate:"required"`
	Apartment         string `json:"apartment" validate:"maxLen:20"`
	ParkingSpot       string `json:"parking_spot" validate:"maxLen:20"`
	Status            string `json:"status" validate:"required|in:owner,tenant"`
	HasEV             string `json:"has_ev" validate:"required|in:yes,no,planned"`
	Interested        string `json:"interested" validate:"required|in:yes,maybe,no"`
	PreferredSolution string `json:"preferred_solution" validate:"in:grid_operator,private_operator,individual,no_opinion"`
	Timeline          string `json:"timeline" validate:"in:6_months,1_year,2_years,later"`
	Comments          string `json:"comments" validate:"maxLen:1000"`
	Email             string `json:"email" validate:"email"`
	ConsentContact    bool   `json:"consent_contact"`
	ConsentTimestamp  string `json:"consent_timestamp"`
}

// ContactEmail returns the email that may be stored: only when contact
// consent was given.
func (in *SubmissionInput) ContactEmail() string {
	if !in.ConsentContact {
		return ""
	}
	return in.Email
}

// Duplicate verdict kinds, in evaluation order.
const (
	VerdictExact          = "exact"
	VerdictIdentityWindow = "identity_window"
)

// DuplicateVerdict references the colliding record. Transient, never stored.
type DuplicateVerdict struct {
	Kind       string
	OriginalID int64
	CreatedAt  time.Time
}

// DuplicateGroup is one email+building combination with more than one
// stored response, for admin review.
type DuplicateGroup struct {
	Email           string    `json:"email"`
	Building        string    `json:"building"`
	Count           int       `json:"count"`
	IDs             []int64   `json:"ids"`
	FirstSubmission time.Time `json:"first_submission"`
	LastSubmission  time.Time `json:"last_submission"`
}
