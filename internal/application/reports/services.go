package reports

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hoblayerta/Loudao.aleph/internal/application"
	"github.com/Hoblayerta/Loudao.aleph/internal/domain/ledger"
	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

// Rules configures submission validation.
type Rules struct {
	MinYear int
	MaxYear int
	// AllowLocalOnly keeps reports that arrive without a ledger receipt,
	// marking them local-only. The two stores are not reconciled.
	AllowLocalOnly bool
}

// DefaultRules mirrors the form the client renders.
var DefaultRules = Rules{MinYear: 2020, MaxYear: 2025, AllowLocalOnly: true}

// Service implements the report use-cases.
// Service is safe for concurrent use as long as its ports are.
type Service struct {
	Repo       domain.Repository
	Ledger     ledger.Mirror
	Sealer     domain.Sealer
	Vault      domain.Vault
	Clock      application.Clock
	Classifier *domain.Classifier
	Rules      Rules
	Log        *zap.Logger
}

//
// ==== USE CASES ====
//

// SubmitCommand is an incoming report.
type SubmitCommand struct {
	AggressorName   string
	Institution     string
	Description     string
	IncidentYear    int
	City            string
	ReporterAddress string
	TransactionHash string
	Private         domain.PrivateFields
}

// Upper bounds match the narrowest column of the SQL backends, so an
// accepted report always fits the store once the ledger has confirmed it.
const (
	maxTextField    = 255
	maxDescription  = 10000
	maxLedgerString = 128
)

// Validate collects every violated constraint.
func (r Rules) Validate(cmd SubmitCommand) error {
	var fields []domain.FieldError
	between := func(field, value string, min, max int) {
		n := utf8.RuneCountInString(value)
		switch {
		case n < min:
			fields = append(fields, domain.FieldError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)})
		case n > max:
			fields = append(fields, domain.FieldError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)})
		}
	}
	between("aggressorName", cmd.AggressorName, 2, maxTextField)
	between("institution", cmd.Institution, 2, maxTextField)
	between("description", cmd.Description, 10, maxDescription)
	if cmd.IncidentYear < r.MinYear || cmd.IncidentYear > r.MaxYear {
		fields = append(fields, domain.FieldError{
			Field:   "incidentYear",
			Message: fmt.Sprintf("must be between %d and %d", r.MinYear, r.MaxYear),
		})
	}
	between("city", cmd.City, 0, maxTextField)
	between("reporterAddress", cmd.ReporterAddress, 0, maxLedgerString)
	between("transactionHash", cmd.TransactionHash, 0, maxLedgerString)
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Submit validates, seals, mirrors to the ledger and persists a report.
// A failed ledger append leaves the store untouched.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*domain.Report, error) {
	if err := s.Rules.Validate(cmd); err != nil {
		return nil, err
	}

	var envelope []byte
	if !cmd.Private.IsZero() {
		if s.Sealer == nil {
			return nil, errors.New("private fields submitted but no sealer configured")
		}
		var err error
		envelope, err = s.Sealer.Seal(cmd.Private)
		if err != nil {
			return nil, fmt.Errorf("seal private fields: %w", err)
		}
	}

	receipt, status, err := s.appendLedger(ctx, cmd, envelope)
	if err != nil {
		return nil, err
	}

	var privateRef string
	if envelope != nil && s.Vault != nil {
		privateRef = fmt.Sprintf("private/%s.bin", uuid.NewString())
		if err := s.Vault.Put(ctx, privateRef, envelope); err != nil {
			return nil, fmt.Errorf("store private envelope: %w", err)
		}
	}

	report := &domain.Report{
		LedgerID:        receipt.LedgerID,
		AggressorName:   cmd.AggressorName,
		Institution:     cmd.Institution,
		Description:     cmd.Description,
		IncidentYear:    cmd.IncidentYear,
		City:            cmd.City,
		ReporterAddress: receipt.ReporterAddress,
		TransactionHash: receipt.TransactionHash,
		LedgerStatus:    status,
		PrivateRef:      privateRef,
		CreatedAt:       s.now(),
		IsActive:        true,
	}
	created, err := s.Repo.Create(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.log().Info("report stored",
		zap.String("id", string(created.ID)),
		zap.Uint64("ledger_id", created.LedgerID),
		zap.String("ledger_status", string(created.LedgerStatus)),
		zap.Bool("sealed", privateRef != ""),
	)
	return created, nil
}

func (s *Service) appendLedger(ctx context.Context, cmd SubmitCommand, envelope []byte) (ledger.Receipt, domain.LedgerStatus, error) {
	if s.Ledger == nil {
		return ledger.Receipt{}, "", errors.New("no ledger mirror configured")
	}
	receipt, err := s.Ledger.Append(ctx, ledger.Entry{
		AggressorName:   cmd.AggressorName,
		Institution:     cmd.Institution,
		Description:     cmd.Description,
		IncidentYear:    cmd.IncidentYear,
		City:            cmd.City,
		Envelope:        envelope,
		ReporterAddress: cmd.ReporterAddress,
		TransactionHash: cmd.TransactionHash,
	})
	switch {
	case err == nil:
		return receipt, domain.LedgerConfirmed, nil
	case errors.Is(err, ledger.ErrNoReceipt):
		if !s.Rules.AllowLocalOnly {
			return ledger.Receipt{}, "", &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "transactionHash", Message: "a ledger transaction is required"},
			}}
		}
		s.log().Warn("storing report without ledger receipt")
		return ledger.Receipt{ReporterAddress: cmd.ReporterAddress}, domain.LedgerLocalOnly, nil
	default:
		var verr *domain.ValidationError
		var up *domain.UpstreamError
		if errors.As(err, &verr) || errors.As(err, &up) {
			return ledger.Receipt{}, "", err
		}
		return ledger.Receipt{}, "", &domain.UpstreamError{Op: "append", Err: err}
	}
}

// Get ambil 1 report by id
func (s *Service) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	return s.Repo.Get(ctx, id)
}

// List returns the public view, newest first, annotated with pattern
// counts and institution categories from a single read of the store.
func (s *Service) List(ctx context.Context) ([]domain.PublicReport, error) {
	d := Detector{Repo: s.Repo}
	list, counts, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicReport, 0, len(list))
	for _, r := range list {
		out = append(out, domain.PublicReport{
			ID:              r.ID,
			LedgerID:        r.LedgerID,
			AggressorName:   r.AggressorName,
			Institution:     r.Institution,
			Description:     r.Description,
			IncidentYear:    r.IncidentYear,
			City:            r.City,
			Timestamp:       r.CreatedAt.UnixMilli(),
			PatternCount:    counts[domain.NormalizeName(r.AggressorName)],
			Category:        s.classifier().Classify(r.Institution),
			TransactionHash: r.TransactionHash,
		})
	}
	return out, nil
}

// CountForAggressor delegates to the pattern detector.
func (s *Service) CountForAggressor(ctx context.Context, name string) (int, error) {
	d := Detector{Repo: s.Repo}
	return d.CountForAggressor(ctx, name)
}

// OpenPrivate decrypts the sealed private fields of a report.
func (s *Service) OpenPrivate(ctx context.Context, id domain.ReportID) (domain.PrivateFields, error) {
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.PrivateFields{}, err
	}
	if r.PrivateRef == "" {
		return domain.PrivateFields{}, nil
	}
	if s.Vault == nil || s.Sealer == nil {
		return domain.PrivateFields{}, errors.New("vault or sealer not configured")
	}
	envelope, err := s.Vault.Get(ctx, r.PrivateRef)
	if err != nil {
		return domain.PrivateFields{}, fmt.Errorf("load envelope %s: %w", r.PrivateRef, err)
	}
	return s.Sealer.Open(envelope)
}

// helper
func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}

func (s *Service) classifier() *domain.Classifier {
	if s.Classifier == nil {
		return domain.NewClassifier()
	}
	return s.Classifier
}

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
