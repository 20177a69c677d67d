package domain

import "time"

// Vote is one rider's verdict on a report. At most one vote per
// (report, voter) pair, immutable once cast.
type Vote struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	VoterID   string    `json:"voter_id"`
	Confirm   bool      `json:"confirm"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteCounts aggregates the votes cast on a report
type VoteCounts struct {
	Confirmations int
	Denials       int
}

func (c VoteCounts) Total() int {
	return c.Confirmations + c.Denials
}
