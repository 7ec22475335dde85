package analytics

import (
	"context"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

// Snapshot is recomputed on every request and never cached.
type Snapshot struct {
	TotalReports     int            `json:"totalReports"`
	UniqueAggressors int            `json:"uniqueAggressors"`
	PatternsDetected int            `json:"patternsDetected"`
	InstitutionStats map[string]int `json:"institutionStats"`
}

// Service aggregates the active report set.
type Service struct {
	Repo       domain.Repository
	Classifier *domain.Classifier
}

func NewService(repo domain.Repository) *Service {
	return &Service{Repo: repo, Classifier: domain.NewClassifier()}
}

// Snapshot reads the store once and derives every counter from that read.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	classifier := s.Classifier
	if classifier == nil {
		classifier = domain.NewClassifier()
	}

	snap := &Snapshot{InstitutionStats: map[string]int{}}
	for _, r := range list {
		if !r.IsActive {
			continue
		}
		snap.TotalReports++
		snap.InstitutionStats[classifier.Classify(r.Institution)]++
	}
	counts := domain.PatternCounts(list)
	snap.UniqueAggressors = len(counts)
	snap.PatternsDetected = domain.PatternsDetected(counts)
	return snap, nil
}
