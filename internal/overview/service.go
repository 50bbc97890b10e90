package overview

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=overview
type Repository interface {
	// Figures reads all inputs inside one consistent snapshot.
	Figures(ctx context.Context) (*Figures, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*Overview, error) {
	f, err := s.repo.Figures(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading figures: %w", err)
	}

	o := Compute(*f)

	return &o, nil
}
