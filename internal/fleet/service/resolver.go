package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"tripdesk_backend/internal/fleet/repository"
	"tripdesk_backend/platform/apperr"
)

// categorySynonyms maps canonical rate-card categories to the phrases
// customers actually type. Matching is case-insensitive on the whole query.
var categorySynonyms = map[string][]string{
	"sedan":     {"sedan", "small car", "cab", "taxi", "dzire", "etios", "amaze"},
	"suv":       {"suv", "muv", "big car", "ertiga", "innova", "7 seater", "7-seater"},
	"hatchback": {"hatchback", "mini", "compact", "wagonr", "alto", "celerio"},
	"tempo":     {"tempo", "tempo traveller", "traveller", "van", "12 seater", "minibus"},
}

// Defaults used by the round-trip estimator when no rate card covers a
// category. Values mirror the long-standing quoting rules of the business.
const (
	defaultMinKmPerDay     = 300.0
	fallbackSedanPerKmRate = 11.0
	fallbackSUVPerKmRate   = 16.0
)

// Resolve maps a free-text vehicle query onto a rate card. Resolution order:
// category keyword (with synonyms), then model-name substring, both filtered
// by seating capacity and picked cheapest per-km first. An unresolvable query
// is a NotFound error so the caller can ask the user to disambiguate.
func (s *Service) Resolve(ctx context.Context, query string, passengers int) (repository.VehicleClass, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return repository.VehicleClass{}, err
	}

	candidates := filterByCapacity(classes, passengers)
	if len(candidates) == 0 {
		return repository.VehicleClass{}, apperr.NotFound(
			fmt.Sprintf("no vehicle seats %d passengers", passengers))
	}

	if category := canonicalCategory(query); category != "" {
		if vc, ok := cheapestInCategory(candidates, category); ok {
			return vc, nil
		}
	}

	if vc, ok := cheapestByModelName(candidates, query); ok {
		return vc, nil
	}

	return repository.VehicleClass{}, apperr.NotFound(
		fmt.Sprintf("no vehicle matches %q; try a category like sedan or suv, or a model name", strings.TrimSpace(query)))
}

// AutoAssign picks the cheapest-fit rate card for a passenger count:
// minimal sufficient seating capacity, then lowest per-km rate. A larger
// vehicle is never assigned when a smaller one fits.
func (s *Service) AutoAssign(ctx context.Context, passengers int) (repository.VehicleClass, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return repository.VehicleClass{}, err
	}

	candidates := filterByCapacity(classes, passengers)
	if len(candidates) == 0 {
		return repository.VehicleClass{}, apperr.NotFound(
			fmt.Sprintf("no vehicle seats %d passengers", passengers))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].SeatingCapacity != candidates[j].SeatingCapacity {
			return candidates[i].SeatingCapacity < candidates[j].SeatingCapacity
		}
		return candidates[i].PerKmRate < candidates[j].PerKmRate
	})
	return candidates[0], nil
}

// EstimateTripCost quotes Sedan and SUV round trips for the given duration
// under the minimum-km-per-day policy: total = minKmPerDay * days * perKmRate.
// Missing rate cards fall back to the standing quote rates.
func (s *Service) EstimateTripCost(ctx context.Context, days, passengers int) ([]ClassQuote, error) {
	if days < 1 {
		days = 1
	}

	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	candidates := filterByCapacity(classes, passengers)

	quotes := make([]ClassQuote, 0, 2)
	for _, spec := range []struct {
		category     string
		fallbackRate float64
	}{
		{"sedan", fallbackSedanPerKmRate},
		{"suv", fallbackSUVPerKmRate},
	} {
		quote := ClassQuote{Category: spec.category, PerKmRate: spec.fallbackRate, MinKmPerDay: defaultMinKmPerDay}
		if vc, ok := cheapestInCategory(candidates, spec.category); ok {
			quote.ModelName = vc.ModelName
			if vc.PerKmRate > 0 {
				quote.PerKmRate = vc.PerKmRate
			}
			if vc.MinKmPerDay > 0 {
				quote.MinKmPerDay = vc.MinKmPerDay
			}
		}
		quote.Days = days
		quote.TotalKm = quote.MinKmPerDay * float64(days)
		quote.Total = math.Round(quote.TotalKm * quote.PerKmRate)
		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// ClassQuote is one category's round-trip estimate.
type ClassQuote struct {
	Category    string
	ModelName   string
	PerKmRate   float64
	MinKmPerDay float64
	Days        int
	TotalKm     float64
	Total       float64
}

func canonicalCategory(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return ""
	}
	for category, synonyms := range categorySynonyms {
		for _, synonym := range synonyms {
			if strings.Contains(normalized, synonym) {
				return category
			}
		}
	}
	return ""
}

func filterByCapacity(classes []repository.VehicleClass, passengers int) []repository.VehicleClass {
	if passengers <= 0 {
		passengers = 1
	}
	result := make([]repository.VehicleClass, 0, len(classes))
	for _, vc := range classes {
		if vc.SeatingCapacity >= passengers {
			result = append(result, vc)
		}
	}
	return result
}

func cheapestInCategory(classes []repository.VehicleClass, category string) (repository.VehicleClass, bool) {
	var best repository.VehicleClass
	found := false
	for _, vc := range classes {
		if strings.ToLower(vc.Category) != category {
			continue
		}
		if !found || vc.PerKmRate < best.PerKmRate {
			best = vc
			found = true
		}
	}
	return best, found
}

func cheapestByModelName(classes []repository.VehicleClass, query string) (repository.VehicleClass, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return repository.VehicleClass{}, false
	}

	var best repository.VehicleClass
	found := false
	for _, vc := range classes {
		model := strings.ToLower(vc.ModelName)
		if model == "" {
			continue
		}
		if !strings.Contains(normalized, model) && !strings.Contains(model, normalized) {
			continue
		}
		if !found || vc.PerKmRate < best.PerKmRate {
			best = vc
			found = true
		}
	}
	return best, found
}
