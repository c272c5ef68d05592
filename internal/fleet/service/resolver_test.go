package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"tripdesk_backend/internal/fleet/repository"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
)

type fakeRepo struct {
	classes []repository.VehicleClass
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateVehicleClassParams) (repository.VehicleClass, error) {
	vc := repository.VehicleClass{
		ID:              uuid.New(),
		Category:        params.Category,
		ModelName:       params.ModelName,
		SeatingCapacity: params.SeatingCapacity,
		PerKmRate:       params.PerKmRate,
		NightRate:       params.NightRate,
		MinKmPerDay:     params.MinKmPerDay,
	}
	f.classes = append(f.classes, vc)
	return vc, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.VehicleClass, error) {
	for _, vc := range f.classes {
		if vc.ID == id {
			return vc, nil
		}
	}
	return repository.VehicleClass{}, apperr.NotFound("vehicle class not found")
}

func (f *fakeRepo) List(_ context.Context) ([]repository.VehicleClass, error) {
	out := make([]repository.VehicleClass, len(f.classes))
	copy(out, f.classes)
	return out, nil
}

func testFleet() []repository.VehicleClass {
	return []repository.VehicleClass{
		{ID: uuid.New(), Category: "hatchback", ModelName: "WagonR", SeatingCapacity: 4, PerKmRate: 10, MinKmPerDay: 250},
		{ID: uuid.New(), Category: "sedan", ModelName: "Dzire", SeatingCapacity: 4, PerKmRate: 11, MinKmPerDay: 300},
		{ID: uuid.New(), Category: "sedan", ModelName: "Etios", SeatingCapacity: 4, PerKmRate: 12, MinKmPerDay: 300},
		{ID: uuid.New(), Category: "suv", ModelName: "Ertiga", SeatingCapacity: 6, PerKmRate: 14, MinKmPerDay: 300},
		{ID: uuid.New(), Category: "suv", ModelName: "Innova Crysta", SeatingCapacity: 7, PerKmRate: 18, MinKmPerDay: 300},
	}
}

func newTestService(classes []repository.VehicleClass) *Service {
	return New(&fakeRepo{classes: classes}, logger.New("development"))
}

func TestResolveByCategoryKeyword(t *testing.T) {
	svc := newTestService(testFleet())

	tests := []struct {
		name       string
		query      string
		passengers int
		wantModel  string
	}{
		{"exact category", "sedan", 2, "Dzire"},
		{"synonym small car", "any small car will do", 2, "Dzire"},
		{"synonym big car", "we need a big car", 5, "Ertiga"},
		{"muv maps to suv", "a muv please", 4, "Ertiga"},
		{"capacity filters within category", "suv", 7, "Innova Crysta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc, err := svc.Resolve(context.Background(), tt.query, tt.passengers)
			if err != nil {
				t.Fatalf("Resolve(%q, %d) error = %v", tt.query, tt.passengers, err)
			}
			if vc.ModelName != tt.wantModel {
				t.Fatalf("Resolve(%q, %d) = %s, want %s", tt.query, tt.passengers, vc.ModelName, tt.wantModel)
			}
		})
	}
}

func TestResolveByModelName(t *testing.T) {
	svc := newTestService(testFleet())

	vc, err := svc.Resolve(context.Background(), "book the Innova Crysta for us", 4)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if vc.ModelName != "Innova Crysta" {
		t.Fatalf("Resolve() = %s, want Innova Crysta", vc.ModelName)
	}
}

func TestResolveNoMatch(t *testing.T) {
	svc := newTestService(testFleet())

	_, err := svc.Resolve(context.Background(), "a limousine", 2)
	if err == nil {
		t.Fatal("Resolve() expected error for unknown vehicle")
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("Resolve() error kind = %v, want KindNotFound", apperr.GetKind(err))
	}
}

func TestResolveCapacityExceedsFleet(t *testing.T) {
	svc := newTestService(testFleet())

	_, err := svc.Resolve(context.Background(), "suv", 12)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("Resolve() error = %v, want KindNotFound", err)
	}
}

func TestAutoAssignCheapestFit(t *testing.T) {
	svc := newTestService(testFleet())

	tests := []struct {
		passengers int
		wantModel  string
	}{
		// Smallest sufficient capacity wins even when a bigger car is cheaper per km.
		{1, "WagonR"},
		{4, "WagonR"},
		{5, "Ertiga"},
		{7, "Innova Crysta"},
	}

	for _, tt := range tests {
		vc, err := svc.AutoAssign(context.Background(), tt.passengers)
		if err != nil {
			t.Fatalf("AutoAssign(%d) error = %v", tt.passengers, err)
		}
		if vc.ModelName != tt.wantModel {
			t.Fatalf("AutoAssign(%d) = %s, want %s", tt.passengers, vc.ModelName, tt.wantModel)
		}
	}
}

func TestEstimateTripCostFromRateCards(t *testing.T) {
	svc := newTestService(testFleet())

	quotes, err := svc.EstimateTripCost(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("EstimateTripCost() error = %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("EstimateTripCost() returned %d quotes, want 2", len(quotes))
	}

	sedan := quotes[0]
	if sedan.Category != "sedan" || sedan.ModelName != "Dzire" {
		t.Fatalf("first quote = %s/%s, want sedan/Dzire", sedan.Category, sedan.ModelName)
	}
	// 300 km/day * 3 days * 11/km
	if sedan.Total != 9900 {
		t.Fatalf("sedan total = %v, want 9900", sedan.Total)
	}

	suv := quotes[1]
	// Cheapest suv card: Ertiga at 14/km -> 300*3*14
	if suv.Total != 12600 {
		t.Fatalf("suv total = %v, want 12600", suv.Total)
	}
}

func TestEstimateTripCostFallbackRates(t *testing.T) {
	svc := newTestService(nil)

	quotes, err := svc.EstimateTripCost(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("EstimateTripCost() error = %v", err)
	}

	// No rate cards: standing quote rates, 300 km/day.
	if quotes[0].Total != 600*11 {
		t.Fatalf("sedan fallback total = %v, want %v", quotes[0].Total, 600*11)
	}
	if quotes[1].Total != 600*16 {
		t.Fatalf("suv fallback total = %v, want %v", quotes[1].Total, 600*16)
	}
}

func TestEstimateTripCostClampsDays(t *testing.T) {
	svc := newTestService(testFleet())

	quotes, err := svc.EstimateTripCost(context.Background(), 0, 1)
	if err != nil {
		t.Fatalf("EstimateTripCost() error = %v", err)
	}
	if quotes[0].Days != 1 {
		t.Fatalf("days = %d, want 1", quotes[0].Days)
	}
}
