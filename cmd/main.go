package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"horizon-eval/config"
	telegram "horizon-eval/internal/api"
	app "horizon-eval/internal/application"
	"horizon-eval/internal/container"
	"horizon-eval/internal/domain/port"
	"horizon-eval/internal/infrastructure/detections"
	"horizon-eval/internal/infrastructure/groundtruth"
	"horizon-eval/internal/infrastructure/report"
	"horizon-eval/internal/infrastructure/storage"
	"horizon-eval/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Разметка и источник ответов детектора
	gtSource := groundtruth.NewCSVReader(cfg.GroundTruthFile, cfg.GroundTruthSuffix)

	var detSource port.DetectionSource
	if cfg.DetectionsFile != "" {
		detSource = detections.NewCSVReader(cfg.DetectionsFile)
	} else {
		frames := vision.NewFrameSource(cfg.FramesDir, vision.NewGoCVDetector())
		if cfg.AnnotatedDir != "" {
			frames = frames.WithAnnotations(cfg.AnnotatedDir, gtSource)
		}
		detSource = frames
	}

	// Отчёты
	writers := []port.ReportWriter{report.NewCSVWriter(cfg.OutputDir, cfg.Prefix)}
	if cfg.WriteXLSX {
		writers = append(writers, report.NewXLSXWriter(cfg.OutputDir, cfg.Prefix))
	}
	if cfg.WritePlot {
		writers = append(writers, report.NewPlotWriter(cfg.OutputDir, cfg.Prefix))
	}

	var notifier port.RunNotifier
	if cfg.NotifyEnabled() {
		n, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("Telegram notifier disabled: %v", err)
		} else {
			notifier = n
		}
	}

	appContainer := container.New(
		gtSource,
		detSource,
		storage.NewMemoryResultRepository(),
		writers,
		notifier,
		app.EvaluationOptions{
			Prefix:  cfg.Prefix,
			Workers: cfg.Workers,
			Policy:  cfg.UndefinedPolicy,
			Debug:   cfg.Debug,
		},
	)

	log.Println("Evaluation is running...")
	if _, err := appContainer.EvaluationService.Run(ctx); err != nil {
		log.Fatalf("Evaluation error: %v", err)
	}
}
