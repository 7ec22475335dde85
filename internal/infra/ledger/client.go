package ledger

import (
	"context"
	"regexp"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/ledger"
	"github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// ClientReceipt accepts the transaction the browser wallet already sent to
// the contract. The server never talks to the chain in this mode; reads
// are served to the client by the chain itself.
type ClientReceipt struct{}

func (ClientReceipt) Append(_ context.Context, e domain.Entry) (domain.Receipt, error) {
	if e.TransactionHash == "" {
		return domain.Receipt{}, domain.ErrNoReceipt
	}
	if !txHashPattern.MatchString(e.TransactionHash) {
		return domain.Receipt{}, &reports.ValidationError{Fields: []reports.FieldError{
			{Field: "transactionHash", Message: "must be 0x followed by 64 hex digits"},
		}}
	}
	return domain.Receipt{
		TransactionHash: e.TransactionHash,
		ReporterAddress: e.ReporterAddress,
	}, nil
}

func (ClientReceipt) CountForAggressor(context.Context, string) (int, error) {
	return 0, domain.ErrUnsupported
}

func (ClientReceipt) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{}, domain.ErrUnsupported
}
