package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"horizon-eval/internal/domain/metrics"
)

type Config struct {
	GroundTruthFile   string
	GroundTruthSuffix string
	DetectionsFile    string
	FramesDir         string
	AnnotatedDir      string
	OutputDir         string
	Prefix            string
	Workers           int
	UndefinedPolicy   metrics.UndefinedPolicy
	WriteXLSX         bool
	WritePlot         bool
	Debug             bool
	TelegramToken     string
	TelegramChatID    int64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	policy, err := metrics.ParsePolicy(os.Getenv("HORIZON_UNDEFINED_POLICY"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GroundTruthFile:   os.Getenv("HORIZON_GT_FILE"),
		GroundTruthSuffix: getEnv("HORIZON_GT_SUFFIX", ".JPG"),
		DetectionsFile:    os.Getenv("HORIZON_DETECTIONS_FILE"),
		FramesDir:         os.Getenv("HORIZON_FRAMES_DIR"),
		AnnotatedDir:      os.Getenv("HORIZON_ANNOTATED_DIR"),
		OutputDir:         getEnv("HORIZON_OUTPUT_DIR", "results"),
		Prefix:            getEnv("HORIZON_PREFIX", "horizon"),
		UndefinedPolicy:   policy,
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.Workers, err = getEnvInt("HORIZON_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.WriteXLSX, err = getEnvBool("HORIZON_XLSX", false); err != nil {
		return nil, err
	}
	if cfg.WritePlot, err = getEnvBool("HORIZON_PLOT", false); err != nil {
		return nil, err
	}
	if cfg.Debug, err = getEnvBool("HORIZON_DEBUG", false); err != nil {
		return nil, err
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
	}

	return cfg, nil
}

// Validate проверяет, что заданы разметка и ровно один источник ответов детектора.
func (c *Config) Validate() error {
	if c.GroundTruthFile == "" {
		return errors.New("HORIZON_GT_FILE is required")
	}
	if (c.DetectionsFile == "") == (c.FramesDir == "") {
		return errors.New("exactly one of HORIZON_DETECTIONS_FILE or HORIZON_FRAMES_DIR is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("HORIZON_WORKERS must be positive, got %d", c.Workers)
	}
	return nil
}

// NotifyEnabled сообщает, настроена ли отправка сводки в Telegram.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
