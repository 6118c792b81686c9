package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/glucolog/backend/config"
	"github.com/pageza/glucolog/backend/internal/database"
	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/store"
)

var nutritionItems = []model.NutritionItem{
	{Name: "White rice (cooked)", Kcal: 130, Weight: 100},
	{Name: "Whole wheat bread", Kcal: 247, Weight: 100},
	{Name: "Oatmeal", Kcal: 68, Weight: 100},
	{Name: "Banana", Kcal: 89, Weight: 100},
	{Name: "Apple", Kcal: 52, Weight: 100},
	{Name: "Chicken breast", Kcal: 165, Weight: 100},
	{Name: "Egg", Kcal: 155, Weight: 100},
	{Name: "Whole milk", Kcal: 61, Weight: 100},
	{Name: "Greek yogurt", Kcal: 59, Weight: 100},
	{Name: "Pasta (cooked)", Kcal: 158, Weight: 100},
}

var supplements = []model.Supplement{
	{Name: "Vitamin D3", DefaultAmount: 1},
	{Name: "Magnesium", DefaultAmount: 1},
	{Name: "Omega-3", DefaultAmount: 2},
}

func main() {
	demoDays := flag.Int("demo-days", 0, "also generate this many days of demo readings ending today")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.RunMigrations(db, "migrations", logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	ctx := context.Background()
	st := store.New(db)

	err = st.Transaction(ctx, func(tx *store.Store) error {
		if err := seedMasterData(ctx, tx, logger); err != nil {
			return err
		}
		if *demoDays > 0 {
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			return seedDemoReadings(ctx, tx, time.Now().In(loc), *demoDays, rng, logger)
		}
		return nil
	})
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding finished")
}

// seedMasterData inserts the nutrition and supplement catalog, skipping
// names that already exist.
func seedMasterData(ctx context.Context, st *store.Store, logger *zap.Logger) error {
	existing, err := st.ListNutrition(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, n := range existing {
		known[n.Name] = true
	}
	for _, item := range nutritionItems {
		if known[item.Name] {
			logger.Debug("nutrition item already exists, skipping", zap.String("name", item.Name))
			continue
		}
		item := item
		if err := st.CreateNutrition(ctx, &item); err != nil {
			return fmt.Errorf("nutrition %q: %w", item.Name, err)
		}
	}

	existingSup, err := st.ListSupplements(ctx)
	if err != nil {
		return err
	}
	known = make(map[string]bool, len(existingSup))
	for _, s := range existingSup {
		known[s.Name] = true
	}
	for _, sup := range supplements {
		if known[sup.Name] {
			logger.Debug("supplement already exists, skipping", zap.String("name", sup.Name))
			continue
		}
		sup := sup
		if err := st.CreateSupplement(ctx, &sup); err != nil {
			return fmt.Errorf("supplement %q: %w", sup.Name, err)
		}
	}
	return nil
}

// seedDemoReadings logs a plausible day for each of the last days days:
// three meals with a glucose reading and an insulin dose each, plus a
// morning supplement.
func seedDemoReadings(ctx context.Context, st *store.Store, now time.Time, days int, rng *rand.Rand, logger *zap.Logger) error {
	foods, err := st.ListNutrition(ctx)
	if err != nil {
		return err
	}
	sups, err := st.ListSupplements(ctx)
	if err != nil {
		return err
	}
	if len(foods) == 0 {
		return fmt.Errorf("no nutrition items to log intake against")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	meals := []time.Duration{7*time.Hour + 30*time.Minute, 12*time.Hour + 15*time.Minute, 18*time.Hour + 45*time.Minute}

	for d := days - 1; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		for _, offset := range meals {
			at := day.Add(offset)

			g := model.GlucoseReading{Timestamp: model.NewTimestamp(at.Add(-10 * time.Minute)), Level: 80 + rng.Intn(100)}
			if err := st.CreateGlucose(ctx, &g); err != nil {
				return err
			}
			dose := model.InsulinDose{Timestamp: model.NewTimestamp(at.Add(-5 * time.Minute)), Level: float64(2 + rng.Intn(8))}
			if err := st.CreateInsulin(ctx, &dose); err != nil {
				return err
			}
			food := foods[rng.Intn(len(foods))]
			intake := model.NutritionEvent{NutritionID: food.ID, Timestamp: model.NewTimestamp(at), AmountGrams: float64(50 + 10*rng.Intn(20))}
			if err := st.CreateIntake(ctx, &intake); err != nil {
				return err
			}
		}
		if len(sups) > 0 {
			sup := sups[rng.Intn(len(sups))]
			e := model.SupplementIntakeEvent{SupplementID: sup.ID, Timestamp: model.NewTimestamp(day.Add(8 * time.Hour)), Amount: sup.DefaultAmount}
			if err := st.CreateSupplementIntake(ctx, &e); err != nil {
				return err
			}
		}
	}

	logger.Info("demo readings created", zap.Int("days", days))
	return nil
}
