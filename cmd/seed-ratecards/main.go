package main

import (
	"context"
	"flag"
	"os"

	"gopkg.in/yaml.v3"

	fleetrepo "tripdesk_backend/internal/fleet/repository"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/db"
	"tripdesk_backend/platform/logger"
)

type rateCard struct {
	Category        string  `yaml:"category"`
	ModelName       string  `yaml:"modelName"`
	SeatingCapacity int     `yaml:"seatingCapacity"`
	PerKmRate       float64 `yaml:"perKmRate"`
	NightRate       float64 `yaml:"nightRate"`
	LocalHourRate   float64 `yaml:"localHourRate"`
	MinLocalHours   float64 `yaml:"minLocalHours"`
	MinLocalKm      float64 `yaml:"minLocalKm"`
	LocalKmRate     float64 `yaml:"localKmRate"`
	MinKmPerDay     float64 `yaml:"minKmPerDay"`
}

type seedFile struct {
	RateCards []rateCard `yaml:"rateCards"`
}

func main() {
	path := flag.String("file", "ratecards.yaml", "path to the rate card seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("seeding rate cards", "file", *path)

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Error("failed to read seed file", "error", err)
		panic("failed to read seed file: " + err.Error())
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Error("failed to parse seed file", "error", err)
		panic("failed to parse seed file: " + err.Error())
	}
	if len(seed.RateCards) == 0 {
		log.Warn("seed file contains no rate cards")
		return
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := fleetrepo.New(pool)

	existing, err := repo.List(ctx)
	if err != nil {
		log.Error("failed to list existing rate cards", "error", err)
		panic("failed to list existing rate cards: " + err.Error())
	}
	seen := make(map[string]bool, len(existing))
	for _, vc := range existing {
		seen[vc.ModelName] = true
	}

	created := 0
	for _, card := range seed.RateCards {
		if seen[card.ModelName] {
			log.Info("rate card already present, skipping", "model", card.ModelName)
			continue
		}

		vc, err := repo.Create(ctx, fleetrepo.CreateVehicleClassParams{
			Category:        card.Category,
			ModelName:       card.ModelName,
			SeatingCapacity: card.SeatingCapacity,
			PerKmRate:       card.PerKmRate,
			NightRate:       card.NightRate,
			LocalHourRate:   card.LocalHourRate,
			MinLocalHours:   card.MinLocalHours,
			MinLocalKm:      card.MinLocalKm,
			LocalKmRate:     card.LocalKmRate,
			MinKmPerDay:     card.MinKmPerDay,
		})
		if err != nil {
			log.Error("failed to create rate card", "model", card.ModelName, "error", err)
			continue
		}
		created++
		log.Info("rate card created", "id", vc.ID, "model", vc.ModelName)
	}

	log.Info("rate card seeding complete", "created", created, "skipped", len(seed.RateCards)-created)
}
