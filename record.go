package jobtrack

import (
	"context"
	"time"
)

// WorkLocation describes where the work happens.
type WorkLocation string

// WorkLocation values. WorkLocationNone is used when the posting doesn't say.
const (
	WorkLocationRemote WorkLocation = "Remote"
	WorkLocationOnsite WorkLocation = "Onsite"
	WorkLocationHybrid WorkLocation = "Hybrid"
	WorkLocationNone   WorkLocation = "None"
)

// WorkLocations lists the valid WorkLocation values.
var WorkLocations = []WorkLocation{WorkLocationRemote, WorkLocationOnsite, WorkLocationHybrid, WorkLocationNone}

// Valid reports whether l is one of the enumerated values.
func (l WorkLocation) Valid() bool {
	for _, v := range WorkLocations {
		if l == v {
			return true
		}
	}
	return false
}

// WorkArrangement describes the employment type.
type WorkArrangement string

// WorkArrangement values. WorkArrangementNone is used when the posting doesn't say.
const (
	WorkArrangementFullTime   WorkArrangement = "Full-time"
	WorkArrangementPartTime   WorkArrangement = "Part-time"
	WorkArrangementInternship WorkArrangement = "Internship"
	WorkArrangementContract   WorkArrangement = "Contract"
	WorkArrangementNone       WorkArrangement = "None"
)

// WorkArrangements lists the valid WorkArrangement values.
var WorkArrangements = []WorkArrangement{
	WorkArrangementFullTime,
	WorkArrangementPartTime,
	WorkArrangementInternship,
	WorkArrangementContract,
	WorkArrangementNone,
}

// Valid reports whether a is one of the enumerated values.
func (a WorkArrangement) Valid() bool {
	for _, v := range WorkArrangements {
		if a == v {
			return true
		}
	}
	return false
}

// Record is the structured result of one successful extraction.
// There is at most one record per posting.
//
// The lifecycle fields (IsApplied, IsShortlisted, ...) are carried for
// downstream consumers. Nothing in this module changes them after creation.
type Record struct {
	ID        string `json:"id"`
	PostingID string `json:"jobId"`

	Company          string          `json:"COMPANY"`
	Title            string          `json:"TITLE"`
	Salary           string          `json:"SALARY"`
	Location         string          `json:"LOCATION"`
	Experience       []float64       `json:"EXPERIENCE"`
	Education        []string        `json:"EDUCATION"`
	Skills           []string        `json:"SKILL"`
	Responsibilities []string        `json:"RESPONSIBILITIES"`
	WorkArrangement  WorkArrangement `json:"WORK_ARRANGEMENT"`
	WorkLocation     WorkLocation    `json:"WORK_LOCATION"`

	IsGenerate  bool      `json:"isGenerate"`
	ResumePath  *string   `json:"resumePath"`
	ProcessedAt time.Time `json:"processedAt"`

	IsApplied     bool       `json:"isAppliedTo"`
	AppliedAt     *time.Time `json:"appliedAt"`
	IsShortlisted bool       `json:"isShortlisted"`
	ShortlistedAt *time.Time `json:"shortlistedAt"`
	IsRejected    bool       `json:"isRejected"`
	RejectedAt    *time.Time `json:"rejectedAt"`
	IsOffered     bool       `json:"isOffered"`
	OfferedAt     *time.Time `json:"offeredAt"`
	OfferedSalary *string    `json:"offeredSalary"`
	IsAccepted    bool       `json:"isAccepted"`
	AcceptedAt    *time.Time `json:"acceptedAt"`
	IsDeclined    bool       `json:"isDeclined"`
	DeclinedAt    *time.Time `json:"declinedAt"`
	Notes         string     `json:"notes"`
}

// NewRecord builds an unsaved record for postingID from a complete extraction.
func NewRecord(postingID string, x *Extraction) *Record {
	return &Record{
		PostingID:        postingID,
		Company:          x.Company,
		Title:            x.Title,
		Salary:           x.Salary,
		Location:         x.Location,
		Experience:       x.Experience,
		Education:        x.Education,
		Skills:           x.Skills,
		Responsibilities: x.Responsibilities,
		WorkArrangement:  x.WorkArrangement,
		WorkLocation:     x.WorkLocation,
	}
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.PostingID == "" {
		return Errorf(EINVALID, "record posting ID required")
	}
	if !r.WorkLocation.Valid() {
		return Errorf(EINVALID, "invalid work location %q", r.WorkLocation)
	}
	if !r.WorkArrangement.Valid() {
		return Errorf(EINVALID, "invalid work arrangement %q", r.WorkArrangement)
	}
	return nil
}

// RecordService represents a service for managing extracted records.
type RecordService interface {
	// CreateRecord stores a new record. ID and ProcessedAt are assigned by
	// the store. Returns ECONFLICT if a record already exists for the posting.
	CreateRecord(ctx context.Context, record *Record) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if record does not exist.
	FindRecordByID(ctx context.Context, id string) (*Record, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	ID        *string `json:"id"`
	PostingID *string `json:"jobId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
