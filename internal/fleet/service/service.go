package service

import (
	"context"
	"sort"
	"strings"

	"tripdesk_backend/internal/fleet/repository"
	"tripdesk_backend/internal/fleet/transport"
	"tripdesk_backend/platform/logger"
)

// Service provides business logic for the fleet rate cards.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new fleet service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateVehicleClass creates a new rate card.
func (s *Service) CreateVehicleClass(ctx context.Context, req transport.CreateVehicleClassRequest) (transport.VehicleClassResponse, error) {
	vc, err := s.repo.Create(ctx, repository.CreateVehicleClassParams{
		Category:        strings.ToLower(strings.TrimSpace(req.Category)),
		ModelName:       strings.TrimSpace(req.ModelName),
		SeatingCapacity: req.SeatingCapacity,
		PerKmRate:       req.PerKmRate,
		NightRate:       req.NightRate,
		LocalHourRate:   req.LocalHourRate,
		MinLocalHours:   req.MinLocalHours,
		MinLocalKm:      req.MinLocalKm,
		LocalKmRate:     req.LocalKmRate,
		MinKmPerDay:     req.MinKmPerDay,
	})
	if err != nil {
		return transport.VehicleClassResponse{}, err
	}

	s.log.Info("vehicle class created", "id", vc.ID, "model", vc.ModelName)
	return toVehicleClassResponse(vc), nil
}

// ListVehicleClasses lists rate cards filtered by category and passenger
// capacity, cheapest per-km first.
func (s *Service) ListVehicleClasses(ctx context.Context, req transport.ListVehicleClassesRequest) (transport.VehicleClassListResponse, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return transport.VehicleClassListResponse{}, err
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))
	items := make([]transport.VehicleClassResponse, 0, len(classes))
	for _, vc := range classes {
		if req.Passengers > 0 && vc.SeatingCapacity < req.Passengers {
			continue
		}
		if category != "" && !matchesCategory(vc, category) {
			continue
		}
		items = append(items, toVehicleClassResponse(vc))
	}

	return transport.VehicleClassListResponse{Items: items, Total: len(items)}, nil
}

// AvailableCars returns rate cards matching an optional free-text category
// and passenger count, cheapest first. Used by the conversational surface.
func (s *Service) AvailableCars(ctx context.Context, passengers int, category string) ([]repository.VehicleClass, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	normalized := canonicalCategory(category)
	matches := make([]repository.VehicleClass, 0, len(classes))
	for _, vc := range classes {
		if passengers > 0 && vc.SeatingCapacity < passengers {
			continue
		}
		if normalized != "" && strings.ToLower(vc.Category) != normalized {
			continue
		}
		matches = append(matches, vc)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].PerKmRate < matches[j].PerKmRate
	})
	return matches, nil
}

func matchesCategory(vc repository.VehicleClass, category string) bool {
	if strings.ToLower(vc.Category) == category {
		return true
	}
	if canonical := canonicalCategory(category); canonical != "" {
		return strings.ToLower(vc.Category) == canonical
	}
	return false
}

func toVehicleClassResponse(vc repository.VehicleClass) transport.VehicleClassResponse {
	return transport.VehicleClassResponse{
		ID:              vc.ID,
		Category:        vc.Category,
		ModelName:       vc.ModelName,
		SeatingCapacity: vc.SeatingCapacity,
		PerKmRate:       vc.PerKmRate,
		NightRate:       vc.NightRate,
		LocalHourRate:   vc.LocalHourRate,
		MinLocalHours:   vc.MinLocalHours,
		MinLocalKm:      vc.MinLocalKm,
		LocalKmRate:     vc.LocalKmRate,
		MinKmPerDay:     vc.MinKmPerDay,
		CreatedAt:       vc.CreatedAt,
		UpdatedAt:       vc.UpdatedAt,
	}
}
