package reports

import "context"

// Repository port (append-only; no update or delete)
type Repository interface {
	Create(ctx context.Context, r *Report) (*Report, error)
	Get(ctx context.Context, id ReportID) (*Report, error)
	// List returns active reports, newest first.
	List(ctx context.Context) ([]*Report, error)
	ListByAggressor(ctx context.Context, name string) ([]*Report, error)
}

// Sealer port for private field encryption
type Sealer interface {
	Seal(p PrivateFields) ([]byte, error)
	Open(envelope []byte) (PrivateFields, error)
}

// Vault port for sealed private field envelopes
type Vault interface {
	Put(ctx context.Context, key string, envelope []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
