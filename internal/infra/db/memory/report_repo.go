package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

type entry struct {
	seq    uint64
	report domain.Report
}

// ReportRepository is the volatile report store. Records are immutable
// once created, so readers share the lock and only Create takes it
// exclusively. Contents are lost on restart.
type ReportRepository struct {
	mu      sync.RWMutex
	seq     uint64
	reports map[domain.ReportID]*entry
	now     func() time.Time
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		reports: make(map[domain.ReportID]*entry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create assigns a fresh id (and a timestamp when the caller left it zero).
// New records are always active.
func (r *ReportRepository) Create(_ context.Context, in *domain.Report) (*domain.Report, error) {
	rec := *in
	rec.IsActive = true
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		rec.ID = domain.ReportID(uuid.NewString())
		if _, taken := r.reports[rec.ID]; !taken {
			break
		}
	}
	r.seq++
	r.reports[rec.ID] = &entry{seq: r.seq, report: rec}

	out := rec
	return &out, nil
}

func (r *ReportRepository) Get(_ context.Context, id domain.ReportID) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := e.report
	return &out, nil
}

func (r *ReportRepository) List(_ context.Context) ([]*domain.Report, error) {
	return r.filter(func(*domain.Report) bool { return true }), nil
}

func (r *ReportRepository) ListByAggressor(_ context.Context, name string) ([]*domain.Report, error) {
	key := domain.NormalizeName(name)
	return r.filter(func(rep *domain.Report) bool {
		return domain.NormalizeName(rep.AggressorName) == key
	}), nil
}

// filter returns active matches, newest first; equal timestamps fall back
// to insertion order.
func (r *ReportRepository) filter(keep func(*domain.Report) bool) []*domain.Report {
	r.mu.RLock()
	matched := make([]*entry, 0, len(r.reports))
	for _, e := range r.reports {
		if e.report.IsActive && keep(&e.report) {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.report.CreatedAt.Equal(b.report.CreatedAt) {
			return a.report.CreatedAt.After(b.report.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*domain.Report, len(matched))
	for i, e := range matched {
		rep := e.report
		out[i] = &rep
	}
	return out
}

// Len counts every stored record, active or not.
func (r *ReportRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reports)
}
