package service

import (
	"context"

	"parkspot/internal/db"
	"parkspot/internal/entities"
	"parkspot/internal/repository"
)

type TraceService struct {
	Traces repository.TraceStore
}

func NewTraceService(traces repository.TraceStore) *TraceService {
	return &TraceService{Traces: traces}
}

func (s *TraceService) SearchTraces(ctx context.Context, page, limit int) (entities.Page[db.Trace], error) {
	page, limit = entities.NormalizePaging(page, limit)
	items, total, err := s.Traces.SearchTraces(ctx, limit, entities.Offset(page, limit))
	if err != nil {
		return entities.Page[db.Trace]{}, err
	}
	return entities.NewPage(items, total, page, limit), nil
}
