package services

import (
	"context"

	"travelFront/internal/models"
)

// CatalogService serves the landing page blocks. Items the backend sends in
// an unexpected shape are skipped.
type CatalogService struct {
	backend CatalogBackend
	log     Logger
}

func NewCatalogService(backend CatalogBackend, logger Logger) *CatalogService {
	return &CatalogService{backend: backend, log: loggerOrNop(logger)}
}

func (s *CatalogService) HotTickets(ctx context.Context, t models.SearchType) ([]models.HotTicket, error) {
	raw, err := s.backend.HotTickets(ctx, t)
	if err != nil {
		return nil, err
	}
	return decodeList[models.HotTicket](s.log, "hot ticket", raw), nil
}

func (s *CatalogService) PopularTours(ctx context.Context) ([]models.PopularTour, error) {
	raw, err := s.backend.PopularTours(ctx)
	if err != nil {
		return nil, err
	}
	return decodeList[models.PopularTour](s.log, "popular tour", raw), nil
}

func (s *CatalogService) TravelIdeas(ctx context.Context) ([]models.TravelIdea, error) {
	raw, err := s.backend.TravelIdeas(ctx)
	if err != nil {
		return nil, err
	}
	return decodeList[models.TravelIdea](s.log, "travel idea", raw), nil
}

// Carriers lists the airlines or railway companies offered as filters.
func (s *CatalogService) Carriers(ctx context.Context, t models.SearchType) ([]models.Company, error) {
	raw, err := s.backend.Carriers(ctx, t)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Company](s.log, "carrier", raw), nil
}

func decodeList[T any](log Logger, kind string, raw []map[string]any) []T {
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var v T
		if err := decodeWeak(item, &v); err != nil {
			log.Errorf("catalog: skip %s %v: %v", kind, item["id"], err)
			continue
		}
		out = append(out, v)
	}
	return out
}
