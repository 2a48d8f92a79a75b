// Package finance implements the tracker's core: currency normalization,
// spending aggregation and budget alerts, plus the transaction and budget
// operations that feed them.
package finance

import (
	"context"
	"log/slog"

	"finance-tracker/internal/events"
)

// Service orchestrates transactions and budgets over a Repository.
type Service struct {
	repo       Repository
	normalizer *Normalizer
	publisher  events.Publisher
	logger     *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher makes the service announce transaction changes.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service.
func NewService(repo Repository, normalizer *Normalizer, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		normalizer: normalizer,
		publisher:  events.Nop{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseCurrency returns the currency all stored amounts are expressed in.
func (s *Service) BaseCurrency() string {
	return s.normalizer.Base()
}

func (s *Service) publish(ctx context.Context, ev events.TransactionEvent) {
	if err := s.publisher.PublishTransaction(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			"type", ev.Type,
			"transaction_id", ev.TransactionID,
			"error", err)
	}
}
