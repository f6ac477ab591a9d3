// Package config loads the recognized configuration for every pipeline
// stage. Flat scalars follow a plain internal/config.Load()
// shape (os.Getenv + default helpers); the nested rubric/threshold structs
// load from YAML via viper, env-overridable, the way sells-group-research-cli
// layers its own pipeline/crawl/batch config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full recognized configuration for one run of the pipeline.
type Config struct {
	Port        string `yaml:"port" mapstructure:"port"`
	Environment string `yaml:"environment" mapstructure:"environment"`

	OpenAIAPIKey    string `yaml:"-" mapstructure:"-"`
	AnthropicAPIKey string `yaml:"-" mapstructure:"-"`
	OpenRouterKey   string `yaml:"-" mapstructure:"-"`

	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Fixes      FixesConfig      `yaml:"fixes" mapstructure:"fixes"`
	ImpactC    ImpactCConfig    `yaml:"impact_tier_c" mapstructure:"impact_tier_c"`
	ImpactB    ImpactBConfig    `yaml:"impact_tier_b" mapstructure:"impact_tier_b"`
	Provider   ProviderConfig   `yaml:"provider" mapstructure:"provider"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
}

// SimulationConfig mirrors the Simulation stage's recognized configuration.
type SimulationConfig struct {
	ChunksPerQuestion            int     `yaml:"chunks_per_question" mapstructure:"chunks_per_question"`
	MinRelevanceScore            float64 `yaml:"min_relevance_score" mapstructure:"min_relevance_score"`
	FullyAnswerableThreshold     float64 `yaml:"fully_answerable_threshold" mapstructure:"fully_answerable_threshold"`
	PartiallyAnswerableThreshold float64 `yaml:"partially_answerable_threshold" mapstructure:"partially_answerable_threshold"`
	SignalMatchThreshold         float64 `yaml:"signal_match_threshold" mapstructure:"signal_match_threshold"`
	UseFuzzyMatching             bool    `yaml:"use_fuzzy_matching" mapstructure:"use_fuzzy_matching"`
	MaxContentLength             int     `yaml:"max_content_length" mapstructure:"max_content_length"`
	WeightRelevance              float64 `yaml:"weight_relevance" mapstructure:"weight_relevance"`
	WeightSignal                 float64 `yaml:"weight_signal" mapstructure:"weight_signal"`
	WeightConfidence              float64 `yaml:"weight_confidence" mapstructure:"weight_confidence"`
}

// FixesConfig mirrors the Fix Generator's recognized configuration.
type FixesConfig struct {
	LowScoreThreshold    float64 `yaml:"low_score_threshold" mapstructure:"low_score_threshold"`
	PartialThreshold     float64 `yaml:"partial_threshold" mapstructure:"partial_threshold"`
	MaxFixes             int     `yaml:"max_fixes" mapstructure:"max_fixes"`
	MaxFixesPerCategory  int     `yaml:"max_fixes_per_category" mapstructure:"max_fixes_per_category"`
	IncludeExamples      bool    `yaml:"include_examples" mapstructure:"include_examples"`
	ExtractSiteContent   bool    `yaml:"extract_site_content" mapstructure:"extract_site_content"`
	MaxExtractedSnippets int     `yaml:"max_extracted_snippets" mapstructure:"max_extracted_snippets"`
}

// ImpactCConfig mirrors the Impact Tier C estimator's recognized configuration.
type ImpactCConfig struct {
	MaxTotalImpact float64 `yaml:"max_total_impact" mapstructure:"max_total_impact"`
}

// ImpactBConfig mirrors the Impact Tier B estimator's recognized configuration.
type ImpactBConfig struct {
	BaseRelevanceBoost float64 `yaml:"base_relevance_boost" mapstructure:"base_relevance_boost"`
	MaxRelevanceScore  float64 `yaml:"max_relevance_score" mapstructure:"max_relevance_score"`
	SignalConfidence   float64 `yaml:"signal_confidence" mapstructure:"signal_confidence"`
}

// ProviderConfig mirrors the provider hub's recognized configuration.
type ProviderConfig struct {
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelaySeconds float64 `yaml:"retry_delay_seconds" mapstructure:"retry_delay_seconds"`
	RequestsPerMinute int     `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ReportConfig mirrors the Report Assembler's recognized configuration.
type ReportConfig struct {
	IncludeObservation   bool    `yaml:"include_observation" mapstructure:"include_observation"`
	IncludeBenchmark     bool    `yaml:"include_benchmark" mapstructure:"include_benchmark"`
	DivergenceLow        float64 `yaml:"divergence_low" mapstructure:"divergence_low"`
	DivergenceMedium     float64 `yaml:"divergence_medium" mapstructure:"divergence_medium"`
	DivergenceHigh       float64 `yaml:"divergence_high" mapstructure:"divergence_high"`
	RefreshOnLowAccuracy float64 `yaml:"refresh_on_low_accuracy" mapstructure:"refresh_on_low_accuracy"`
}

// CatalogConfig mirrors the catalog's site-derivation configuration.
type CatalogConfig struct {
	MinKeywordFrequency int `yaml:"min_keyword_frequency" mapstructure:"min_keyword_frequency"`
	MaxQuestions        int `yaml:"max_questions" mapstructure:"max_questions"`
}

// Load reads configuration from an optional ./config.yaml plus environment
// overrides (FINDABLE_-prefixed, following sells-group-research-cli's
// SetEnvPrefix/SetEnvKeyReplacer idiom), falling back to spec-documented
// defaults when neither is present.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINDABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenRouterKey = os.Getenv("OPENROUTER_API_KEY")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.chunks_per_question", 5)
	v.SetDefault("simulation.min_relevance_score", 0.3)
	v.SetDefault("simulation.fully_answerable_threshold", 0.7)
	v.SetDefault("simulation.partially_answerable_threshold", 0.3)
	v.SetDefault("simulation.signal_match_threshold", 0.5)
	v.SetDefault("simulation.use_fuzzy_matching", true)
	v.SetDefault("simulation.max_content_length", 2000)
	v.SetDefault("simulation.weight_relevance", 0.4)
	v.SetDefault("simulation.weight_signal", 0.4)
	v.SetDefault("simulation.weight_confidence", 0.2)

	v.SetDefault("fixes.low_score_threshold", 0.5)
	v.SetDefault("fixes.partial_threshold", 0.7)
	v.SetDefault("fixes.max_fixes", 10)
	v.SetDefault("fixes.max_fixes_per_category", 3)
	v.SetDefault("fixes.include_examples", true)
	v.SetDefault("fixes.extract_site_content", true)
	v.SetDefault("fixes.max_extracted_snippets", 3)

	v.SetDefault("impact_tier_c.max_total_impact", 30.0)

	v.SetDefault("impact_tier_b.base_relevance_boost", 0.3)
	v.SetDefault("impact_tier_b.max_relevance_score", 0.95)
	v.SetDefault("impact_tier_b.signal_confidence", 0.9)

	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("provider.retry_delay_seconds", 1)
	v.SetDefault("provider.requests_per_minute", 60)

	v.SetDefault("report.include_observation", true)
	v.SetDefault("report.include_benchmark", true)
	v.SetDefault("report.divergence_low", 0.1)
	v.SetDefault("report.divergence_medium", 0.2)
	v.SetDefault("report.divergence_high", 0.35)
	v.SetDefault("report.refresh_on_low_accuracy", 0.5)

	v.SetDefault("catalog.min_keyword_frequency", 3)
	v.SetDefault("catalog.max_questions", 5)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
