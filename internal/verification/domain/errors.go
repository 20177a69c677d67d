package domain

import "errors"

var (
	// ErrReportNotFound: no report with the given id
	ErrReportNotFound = errors.New("report not found")

	// ErrTripNotFound: no vehicle trip with the given id
	ErrTripNotFound = errors.New("vehicle trip not found")

	// ErrAlreadyVerified: the report already transitioned to verified
	ErrAlreadyVerified = errors.New("report already verified")

	// ErrDuplicateVote: this rider already voted on this report
	ErrDuplicateVote = errors.New("rider already voted on this report")

	// ErrSelfVote: a report's author may never vote on it
	ErrSelfVote = errors.New("author cannot vote on own report")

	// ErrNotOnVehicle: a non-admin voter must be aboard the trip
	ErrNotOnVehicle = errors.New("voter is not on the vehicle")

	// ErrForbidden: the caller's role does not allow the operation
	ErrForbidden = errors.New("operation not allowed for this role")
)
