package reports

import (
	"strings"
	"time"
)

// ReportID identifier type
type ReportID string

// LedgerStatus tells whether the ledger mirror confirmed the report.
type LedgerStatus string

const (
	LedgerConfirmed LedgerStatus = "confirmed"
	LedgerLocalOnly LedgerStatus = "local-only"
)

// Report is a submitted incident. Public fields are stored exactly as
// received; private fields live sealed in the vault under PrivateRef.
type Report struct {
	ID              ReportID     `json:"id"`
	LedgerID        uint64       `json:"ledgerId"`
	AggressorName   string       `json:"aggressorName"`
	Institution     string       `json:"institution"`
	Description     string       `json:"description"`
	IncidentYear    int          `json:"incidentYear"`
	City            string       `json:"city,omitempty"`
	ReporterAddress string       `json:"reporterAddress"`
	TransactionHash string       `json:"transactionHash"`
	LedgerStatus    LedgerStatus `json:"ledgerStatus"`
	PrivateRef      string       `json:"-"`
	CreatedAt       time.Time    `json:"timestamp"`
	IsActive        bool         `json:"isActive"`
}

// PrivateFields are never persisted or logged in plaintext.
type PrivateFields struct {
	VictimAge        string `json:"victimAge,omitempty"`
	RelationshipType string `json:"relationshipType,omitempty"`
	ViolenceType     string `json:"violenceType,omitempty"`
	UrgencyLevel     string `json:"urgencyLevel,omitempty"`
}

func (p PrivateFields) IsZero() bool {
	return p == PrivateFields{}
}

// PublicReport is the list view served to the wall of reports.
type PublicReport struct {
	ID              ReportID `json:"id"`
	LedgerID        uint64   `json:"ledgerId"`
	AggressorName   string   `json:"aggressorName"`
	Institution     string   `json:"institution"`
	Description     string   `json:"description"`
	IncidentYear    int      `json:"incidentYear"`
	City            string   `json:"city,omitempty"`
	Timestamp       int64    `json:"timestamp"`
	PatternCount    int      `json:"patternCount"`
	Category        string   `json:"category"`
	TransactionHash string   `json:"transactionHash,omitempty"`
}

// NormalizeName is the key used for every aggressor name comparison.
func NormalizeName(name string) string {
	return strings.ToLower(name)
}
