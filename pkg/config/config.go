package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey は起動時設定の不備を示します。
// リクエスト単位の失敗とは区別して、ユーザーに設定の修正を促すために使います。
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config はアプリケーション全体の設定です。
type Config struct {
	APIKey      string        `yaml:"api_key"`
	Workers     int           `yaml:"workers"`
	OutputDir   string        `yaml:"output_dir"`
	RefCacheTTL time.Duration `yaml:"ref_cache_ttl"`
	Models      ModelsConfig  `yaml:"models"`
	Log         LogConfig     `yaml:"log"`
}

// ModelsConfig は用途別のモデル名です。
type ModelsConfig struct {
	Text      string `yaml:"text"`
	Image     string `yaml:"image"`
	ImageEdit string `yaml:"image_edit"`
}

// LogConfig はログ出力の設定です。
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default は既定値のみを設定した Config を返します。
func Default() *Config {
	return &Config{
		Workers:     2,
		OutputDir:   "decks",
		RefCacheTTL: time.Hour,
		Models: ModelsConfig{
			Text:      "gemini-2.5-flash",
			Image:     "imagen-4.0-generate-001",
			ImageEdit: "gemini-2.5-flash-image",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load は YAML 設定ファイルを読み込み、環境変数を展開して返します。
// path が空の場合は既定値のみを使います。API キーは設定ファイルに
// 直書きせず、環境変数 GEMINI_API_KEY から渡すのが推奨です。
func Load(path string) (*Config, error) {
	// .env があれば事前に環境へ取り込む（無ければ何もしない）
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return cfg, nil
}

// Validate は生成を始められる状態かを検査します。
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
