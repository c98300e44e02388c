// Package kitchen provides the application layer of the local data store.
// This implements the use cases defined in the inbound ports.
package kitchen

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/alchemorsel/kitchen/internal/domain/shared"
	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"github.com/alchemorsel/kitchen/pkg/validation"
	"go.uber.org/zap"
)

// Service implements inbound.KitchenService.
//
// Writes take writeMu so that one composite operation finishes before the next
// starts. Change events are published only after the write has succeeded.
type Service struct {
	store     outbound.Store
	feed      outbound.ChangeFeed
	settings  outbound.SettingsStore
	generator outbound.RecipeGenerator
	metrics   outbound.OperationMetrics
	validator *validation.Validator
	now       func() time.Time
	logger    *zap.Logger

	writeMu sync.Mutex
}

var _ inbound.KitchenService = (*Service)(nil)

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now, which decides "today" for expiry and cooked dates
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics records operation outcomes
func WithMetrics(m outbound.OperationMetrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a new kitchen service
func NewService(
	store outbound.Store,
	feed outbound.ChangeFeed,
	settingsStore outbound.SettingsStore,
	generator outbound.RecipeGenerator,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:     store,
		feed:      feed,
		settings:  settingsStore,
		generator: generator,
		metrics:   noopMetrics{},
		validator: validation.New(),
		now:       time.Now,
		logger:    logger.Named("kitchen-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSettings loads the settings blob merged over the defaults
func (s *Service) GetSettings(ctx context.Context) (settings.AppSettings, error) {
	current, err := s.settings.Load()
	if err != nil {
		return settings.AppSettings{}, errors.Wrap(err, "failed to load settings")
	}
	return current, nil
}

// SaveSettings validates and stores the settings blob
func (s *Service) SaveSettings(ctx context.Context, value settings.AppSettings) error {
	if err := s.validator.Struct(value); err != nil {
		return err
	}
	if err := s.settings.Save(value); err != nil {
		return errors.Wrap(err, "failed to save settings")
	}
	s.logger.Info("Settings saved")
	return nil
}

// publish sends a change to live readers
func (s *Service) publish(collection shared.Collection, op shared.ChangeOp, ids ...uint64) {
	s.feed.Publish(shared.NewChange(collection, op, ids...))
}

// track records an operation's outcome; use with defer and a named error result
func (s *Service) track(name string, started time.Time, err *error) {
	s.metrics.ObserveOperation(name, started, *err)
}

func (s *Service) today() time.Time {
	return s.now()
}

// invalid turns a domain rule violation into a VALIDATION_FAILED error
func invalid(err error) error {
	return errors.NewValidationError(err.Error()).WithCause(err)
}

func isNotFound(err error) bool {
	return stderrors.Is(err, outbound.ErrNotFound)
}

// lookupError maps a repository error from a by-id lookup
func lookupError(resource string, id uint64, err error) error {
	if isNotFound(err) {
		return errors.NewNotFoundError(resource, id)
	}
	return errors.NewDatabaseError("find "+resource, err)
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, time.Time, error) {}
func (noopMetrics) AddItems(string, int) {}
