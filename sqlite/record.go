package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/jobtrack"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ jobtrack.RecordService = (*RecordService)(nil)

// RecordService implements jobtrack.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

const recordColumns = `id, posting_id, company, title, salary, location,
	experience, education, skills, responsibilities, work_arrangement, work_location,
	is_generate, resume_path, processed_at,
	is_applied, applied_at, is_shortlisted, shortlisted_at, is_rejected, rejected_at,
	is_offered, offered_at, offered_salary, is_accepted, accepted_at, is_declined, declined_at,
	notes`

// CreateRecord stores a new record. The insert is a no-op when the posting
// already has a record, which is reported as ECONFLICT.
func (s *RecordService) CreateRecord(ctx context.Context, record *jobtrack.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	experience, err := encodeList(record.Experience)
	if err != nil {
		return err
	}
	education, err := encodeList(record.Education)
	if err != nil {
		return err
	}
	skills, err := encodeList(record.Skills)
	if err != nil {
		return err
	}
	responsibilities, err := encodeList(record.Responsibilities)
	if err != nil {
		return err
	}

	id := uuid.New().String()
	processedAt := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(posting_id) DO NOTHING
	`, id, record.PostingID, record.Company, record.Title, record.Salary, record.Location,
		experience, education, skills, responsibilities,
		string(record.WorkArrangement), string(record.WorkLocation),
		record.IsGenerate, nullString(record.ResumePath), formatTime(processedAt),
		record.IsApplied, formatNullTime(record.AppliedAt),
		record.IsShortlisted, formatNullTime(record.ShortlistedAt),
		record.IsRejected, formatNullTime(record.RejectedAt),
		record.IsOffered, formatNullTime(record.OfferedAt), nullString(record.OfferedSalary),
		record.IsAccepted, formatNullTime(record.AcceptedAt),
		record.IsDeclined, formatNullTime(record.DeclinedAt),
		record.Notes)
	if errors.Is(err, sqlite3.CONSTRAINT_FOREIGNKEY) {
		return jobtrack.Errorf(jobtrack.ENOTFOUND, "posting not found")
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return jobtrack.Errorf(jobtrack.ECONFLICT, "record already exists for posting %q", record.PostingID)
	}

	record.ID = id
	record.ProcessedAt = processedAt
	return nil
}

// FindRecordByID retrieves a record by ID.
func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*jobtrack.Record, error) {
	records, err := s.FindRecords(ctx, jobtrack.RecordFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, jobtrack.Errorf(jobtrack.ENOTFOUND, "record not found")
	}
	return records[0], nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter jobtrack.RecordFilter) ([]*jobtrack.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.PostingID != nil {
		query.WriteString(" AND posting_id = ?")
		args = append(args, *filter.PostingID)
	}

	query.WriteString(" ORDER BY processed_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*jobtrack.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (*jobtrack.Record, error) {
	var r jobtrack.Record
	var experience, education, skills, responsibilities string
	var workArrangement, workLocation, processedAt string
	var resumePath, offeredSalary sql.NullString
	var appliedAt, shortlistedAt, rejectedAt, offeredAt, acceptedAt, declinedAt sql.NullString

	if err := rows.Scan(&r.ID, &r.PostingID, &r.Company, &r.Title, &r.Salary, &r.Location,
		&experience, &education, &skills, &responsibilities, &workArrangement, &workLocation,
		&r.IsGenerate, &resumePath, &processedAt,
		&r.IsApplied, &appliedAt, &r.IsShortlisted, &shortlistedAt, &r.IsRejected, &rejectedAt,
		&r.IsOffered, &offeredAt, &offeredSalary, &r.IsAccepted, &acceptedAt, &r.IsDeclined, &declinedAt,
		&r.Notes); err != nil {
		return nil, err
	}

	r.WorkArrangement = jobtrack.WorkArrangement(workArrangement)
	r.WorkLocation = jobtrack.WorkLocation(workLocation)
	r.ResumePath = stringPtr(resumePath)
	r.OfferedSalary = stringPtr(offeredSalary)

	var err error
	if r.Experience, err = decodeList[float64](experience, "experience"); err != nil {
		return nil, err
	}
	if r.Education, err = decodeList[string](education, "education"); err != nil {
		return nil, err
	}
	if r.Skills, err = decodeList[string](skills, "skills"); err != nil {
		return nil, err
	}
	if r.Responsibilities, err = decodeList[string](responsibilities, "responsibilities"); err != nil {
		return nil, err
	}
	if r.ProcessedAt, err = parseTime(processedAt, "processed_at"); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		dst  **time.Time
		src  sql.NullString
		name string
	}{
		{&r.AppliedAt, appliedAt, "applied_at"},
		{&r.ShortlistedAt, shortlistedAt, "shortlisted_at"},
		{&r.RejectedAt, rejectedAt, "rejected_at"},
		{&r.OfferedAt, offeredAt, "offered_at"},
		{&r.AcceptedAt, acceptedAt, "accepted_at"},
		{&r.DeclinedAt, declinedAt, "declined_at"},
	} {
		if *f.dst, err = parseNullTime(f.src, f.name); err != nil {
			return nil, err
		}
	}

	return &r, nil
}
