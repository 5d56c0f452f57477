package layouts

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

// Service combines the store and the applier behind the surface the HTTP
// layer consumes.
type Service struct {
	store   *Store
	applier Applier
	log     zerolog.Logger
}

func NewService(store *Store, applier Applier, log zerolog.Logger) *Service {
	return &Service{store: store, applier: applier, log: log}
}

// Layouts returns the dashboard-visible layouts in registry order.
func (s *Service) Layouts() []types.Layout { return s.store.Visible() }

// Ready reports whether the registry has been loaded at least once with
// content. An empty registry is still ready; it renders an empty grid.
func (s *Service) Ready() bool { return s.store != nil }

// Apply looks up the layout and pushes it through the applier. The
// returned layout carries the name used in response texts.
func (s *Service) Apply(ctx context.Context, id string) (types.Layout, error) {
	l, ok := s.store.Get(id)
	if !ok {
		return types.Layout{}, ErrNotFound(id)
	}
	s.log.Info().Str("layout", l.ID).Str("name", l.Name).Msg("applying layout")
	if err := s.applier.Apply(ctx, l); err != nil {
		s.log.Error().Str("layout", l.ID).Err(err).Msg("apply failed")
		return l, err
	}
	s.log.Info().Str("layout", l.ID).Msg("layout applied")
	return l, nil
}
