package report

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

// Service turns reconciled documents into a named report on its sink.
type Service struct {
	projector *Projector
	sink      Sink
	prefix    string
}

func NewService(projector *Projector, sink Sink, prefix string) *Service {
	return &Service{projector: projector, sink: sink, prefix: prefix}
}

// Export writes docs as one report named after period and at, returning its location.
func (s *Service) Export(ctx context.Context, period document.Period, docs []*document.Document, at time.Time) (string, error) {
	if len(docs) == 0 {
		return "", ErrEmptyReport
	}

	name := Name(s.prefix, period, at)

	loc, err := s.sink.Write(ctx, name, s.projector.Headers(), s.projector.ProjectAll(docs))
	if err != nil {
		return loc, fmt.Errorf("writing report %s: %w", name, err)
	}

	return loc, nil
}
