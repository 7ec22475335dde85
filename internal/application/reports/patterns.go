package reports

import (
	"context"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

// Detector answers pattern queries against the live store.
type Detector struct {
	Repo domain.Repository
}

// CountForAggressor counts active reports naming the aggressor, ignoring case.
func (d *Detector) CountForAggressor(ctx context.Context, name string) (int, error) {
	list, err := d.Repo.ListByAggressor(ctx, name)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Snapshot reads the active set once and returns the per-name counts.
func (d *Detector) Snapshot(ctx context.Context) ([]*domain.Report, map[string]int, error) {
	list, err := d.Repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return list, domain.PatternCounts(list), nil
}
