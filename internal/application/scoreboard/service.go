package scoreboard

import (
	"context"
	"errors"

	"github.com/theom/scoreboard-api/internal/domain"
)

// Repository is the counter storage contract. Increment and Reset create the
// board on first write; Decrement on a zero counter is a storage-level no-op.
type Repository interface {
	Get(ctx context.Context, slug string) (*domain.Scoreboard, error)
	Increment(ctx context.Context, slug string, side domain.Side) error
	Decrement(ctx context.Context, slug string, side domain.Side) error
	Reset(ctx context.Context, slug string) error
}

// Service exposes a per-user two-sided tally. Every operation is scoped to
// the calling user's own board.
type Service interface {
	Get(ctx context.Context, userID string) (*domain.Scoreboard, error)
	Increment(ctx context.Context, userID string, side domain.Side) (*domain.Scoreboard, error)
	Decrement(ctx context.Context, userID string, side domain.Side) (*domain.Scoreboard, error)
	Reset(ctx context.Context, userID string) (*domain.Scoreboard, error)
}

type ServiceDeps struct {
	Repo Repository
}

type service struct {
	repo Repository
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo}
}

// Get returns the user's board, or a zeroed one when nothing has been
// written yet. A missing board and a reset board are indistinguishable.
func (s *service) Get(ctx context.Context, userID string) (*domain.Scoreboard, error) {
	slug := domain.ScoreboardSlug(userID)
	board, err := s.repo.Get(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Scoreboard{Slug: slug}, nil
	}
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (s *service) Increment(ctx context.Context, userID string, side domain.Side) (*domain.Scoreboard, error) {
	if err := s.repo.Increment(ctx, domain.ScoreboardSlug(userID), side); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Decrement lowers one side, flooring at zero. Decrementing a missing or
// zeroed side changes nothing and is not an error.
func (s *service) Decrement(ctx context.Context, userID string, side domain.Side) (*domain.Scoreboard, error) {
	if err := s.repo.Decrement(ctx, domain.ScoreboardSlug(userID), side); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Reset(ctx context.Context, userID string) (*domain.Scoreboard, error) {
	if err := s.repo.Reset(ctx, domain.ScoreboardSlug(userID)); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
