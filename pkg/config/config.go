package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Work    WorkConfig
	Process ProcessConfig
}

// WorkConfig locates the working directory and its fixed artifacts.
type WorkConfig struct {
	Dir          string
	TemplateFile string
	OutputDir    string
}

// ProcessConfig tunes the extraction run.
type ProcessConfig struct {
	SheetName  string
	MaxWorkers int
}

// Load reads configuration from environment variables. A .env file in the
// current directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Work: WorkConfig{
			Dir:          getEnv("WORK_DIR", ""),
			TemplateFile: getEnv("TEMPLATE_FILE", "MODELO.xlsm"),
			OutputDir:    getEnv("OUTPUT_DIR", "DADOS"),
		},
		Process: ProcessConfig{
			SheetName:  getEnv("SHEET_NAME", "LEVANTAMENTO DADOS"),
			MaxWorkers: getEnvAsInt("MAX_WORKERS", 4),
		},
	}

	if cfg.Work.Dir == "" {
		return nil, errors.New("WORK_DIR is required")
	}
	info, err := os.Stat(cfg.Work.Dir)
	if err != nil {
		return nil, fmt.Errorf("WORK_DIR %s: %w", cfg.Work.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("WORK_DIR %s is not a directory", cfg.Work.Dir)
	}
	if cfg.Process.MaxWorkers < 1 {
		cfg.Process.MaxWorkers = 1
	}

	return cfg, nil
}

// TemplatePath returns the absolute path of the template workbook.
func (c *WorkConfig) TemplatePath() string {
	return filepath.Join(c.Dir, c.TemplateFile)
}

// OutputPath returns the absolute path of the output directory.
func (c *WorkConfig) OutputPath() string {
	return filepath.Join(c.Dir, c.OutputDir)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
