package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/pushpull/internal/config"
	"github.com/claude/pushpull/internal/export"
	"github.com/claude/pushpull/internal/history"
	"github.com/claude/pushpull/internal/models"
	"github.com/claude/pushpull/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	workoutID := flag.String("id", "", "export a single workout by id")
	all := flag.Bool("all", false, "export every completed workout")
	outDir := flag.String("out", ".", "directory to write .fit files into")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if (*workoutID == "") == !*all {
		fmt.Fprintf(os.Stderr, "Usage: pushpull-export -config config.yaml (-id <workout-id> | -all) [-out dir]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error("creating output directory", "path", *outDir, "error", err)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, storage.Dialect(cfg.Database.Driver), cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	hist := history.NewService(db, log)

	ids := []string{*workoutID}
	if *all {
		workouts, err := hist.List(ctx)
		if err != nil {
			log.Error("listing workouts failed", "error", err)
			os.Exit(1)
		}
		ids = ids[:0]
		for _, w := range workouts {
			ids = append(ids, w.ID)
		}
	}

	var written, failed int
	for _, id := range ids {
		path, err := exportOne(ctx, hist, id, cfg.Units, *outDir)
		if err != nil {
			log.Error("export failed", "workout_id", id, "error", err)
			failed++
			continue
		}
		log.Info("workout exported", "workout_id", id, "path", path)
		written++
	}

	log.Info("export complete", "written", written, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func exportOne(ctx context.Context, hist *history.Service, id, unit, dir string) (string, error) {
	detail, err := hist.Detail(ctx, id)
	if err != nil {
		return "", err
	}
	if !detail.Workout.Completed {
		return "", fmt.Errorf("workout %s is not complete", id)
	}
	var sets []models.WorkoutSet
	for _, ex := range detail.Exercises {
		sets = append(sets, ex.Sets...)
	}
	data, err := export.EncodeFIT(detail.Workout, sets, unit)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, export.FileName(detail.Workout))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
