package entity

import "time"

type ReportReason string

const (
	ReasonScam          ReportReason = "scam"
	ReasonProhibited    ReportReason = "prohibited_item"
	ReasonOffensive     ReportReason = "offensive_content"
	ReasonWrongCategory ReportReason = "wrong_category"
	ReasonOther         ReportReason = "other"
)

func (r ReportReason) IsValid() bool {
	switch r {
	case ReasonScam, ReasonProhibited, ReasonOffensive, ReasonWrongCategory, ReasonOther:
		return true
	}
	return false
}

// Report is immutable once created. A (ListingID, ReporterID) pair is
// unique: one user flags a given listing at most once.
type Report struct {
	ID         string
	ListingID  string
	ReporterID string
	Reason     ReportReason
	Details    string
	CreatedAt  time.Time
}

func NewReport(listingID, reporterID string, reason ReportReason, details string) (*Report, error) {
	if listingID == "" || reporterID == "" {
		return nil, ErrInvalidReport
	}
	if !reason.IsValid() {
		return nil, ErrInvalidReport
	}
	return &Report{
		ListingID:  listingID,
		ReporterID: reporterID,
		Reason:     reason,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ReportOutcome distinguishes a plain submission from the one that tripped
// the removal threshold.
type ReportOutcome string

const (
	OutcomeSubmitted ReportOutcome = "submitted"
	OutcomeRemoved   ReportOutcome = "removed"
)
