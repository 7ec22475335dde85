package ledger

import (
	"context"
	"errors"
)

var (
	// ErrNoReceipt means the caller supplied no ledger transaction.
	ErrNoReceipt = errors.New("no ledger receipt supplied")
	// ErrUnsupported is returned by adapters that cannot serve reads.
	ErrUnsupported = errors.New("ledger reads not supported by this adapter")
)

// Entry is what gets appended to the ledger mirror. Private fields travel
// only as a sealed envelope.
type Entry struct {
	AggressorName   string
	Institution     string
	Description     string
	IncidentYear    int
	City            string
	Envelope        []byte
	ReporterAddress string
	TransactionHash string
}

// Receipt is the ledger's confirmation of an appended entry.
type Receipt struct {
	LedgerID        uint64
	TransactionHash string
	ReporterAddress string
}

// Stats are the counters the ledger maintains incrementally.
type Stats struct {
	TotalReports     int `json:"totalReports"`
	UniqueAggressors int `json:"uniqueAggressors"`
	PatternsDetected int `json:"patternsDetected"`
}

// Mirror port for the external append-only record store
type Mirror interface {
	Append(ctx context.Context, e Entry) (Receipt, error)
	CountForAggressor(ctx context.Context, name string) (int, error)
	Stats(ctx context.Context) (Stats, error)
}
