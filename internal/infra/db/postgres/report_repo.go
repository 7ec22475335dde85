package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, ledger_id, aggressor_name, institution, description, incident_year,
       city, reporter_address, transaction_hash, ledger_status, private_ref,
       created_at, is_active`

// Create inserts a new report with a fresh id
func (r *ReportRepository) Create(ctx context.Context, in *domain.Report) (*domain.Report, error) {
	const q = `
INSERT INTO reports
(id, ledger_id, aggressor_name, aggressor_key, institution, description, incident_year,
 city, reporter_address, transaction_hash, ledger_status, private_ref, created_at, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,TRUE);
`
	rec := *in
	rec.ID = domain.ReportID(uuid.NewString())
	rec.IsActive = true
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.CreatedAt = ceilMicro(rec.CreatedAt)

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.LedgerID, rec.AggressorName, domain.NormalizeName(rec.AggressorName),
		rec.Institution, rec.Description, rec.IncidentYear,
		nullIfEmpty(rec.City), rec.ReporterAddress, rec.TransactionHash,
		string(rec.LedgerStatus), nullIfEmpty(rec.PrivateRef), rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting report: %w", err)
	}
	return &rec, nil
}

// Get by ID
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	q := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1 LIMIT 1;`
	rep, err := scanReport(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rep, err
}

// List active reports, newest first
func (r *ReportRepository) List(ctx context.Context) ([]*domain.Report, error) {
	q := `SELECT ` + reportColumns + `
FROM reports WHERE is_active = TRUE
ORDER BY created_at DESC, id DESC;`
	return r.query(ctx, q)
}

// ListByAggressor matches the lower-cased name key
func (r *ReportRepository) ListByAggressor(ctx context.Context, name string) ([]*domain.Report, error) {
	q := `SELECT ` + reportColumns + `
FROM reports WHERE is_active = TRUE AND aggressor_key = $1
ORDER BY created_at DESC, id DESC;`
	return r.query(ctx, q, domain.NormalizeName(name))
}

func (r *ReportRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Report, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	out := []*domain.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var rep domain.Report
	var city, privateRef sql.NullString
	var status string
	if err := row.Scan(
		&rep.ID, &rep.LedgerID, &rep.AggressorName, &rep.Institution, &rep.Description, &rep.IncidentYear,
		&city, &rep.ReporterAddress, &rep.TransactionHash, &status, &privateRef,
		&rep.CreatedAt, &rep.IsActive,
	); err != nil {
		return nil, err
	}
	rep.City = city.String
	rep.PrivateRef = privateRef.String
	rep.LedgerStatus = domain.LedgerStatus(status)
	rep.CreatedAt = rep.CreatedAt.UTC()
	return &rep, nil
}
