package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config drives the whole pipeline: which model summarizes sections, which
// models synthesize, which sections gate each synthesis, and how wide each
// stage may fan out.
type Config struct {
	// SectionModel is the model the map/reduce stage runs on; it is also the
	// model whose section summaries the synthesizers require.
	SectionModel string `yaml:"section_model"`
	// SynthesisModel produces the top-level investment brief.
	SynthesisModel string `yaml:"synthesis_model"`
	// ReportModel produces the comprehensive report.
	ReportModel string `yaml:"report_model"`

	// TargetSections is the fixed set required by map/reduce runs, discovery
	// and top-level synthesis.
	TargetSections []string `yaml:"target_sections"`
	// ReportSections is the wider, best-effort set for comprehensive reports.
	ReportSections []string `yaml:"report_sections"`
	// FormTypes are the filing types discovery recognizes.
	FormTypes []string `yaml:"form_types"`

	ChunkSummaryTokens   int     `yaml:"chunk_summary_tokens"`
	SectionSummaryTokens int     `yaml:"section_summary_tokens"`
	BriefTokens          int     `yaml:"brief_tokens"`
	ReportTokens         int     `yaml:"report_tokens"`
	Temperature          float64 `yaml:"temperature"`

	// MapConcurrency bounds parallel chunk calls within one section.
	MapConcurrency int `yaml:"map_concurrency"`
	// SectionConcurrency bounds parallel sections within one filing.
	SectionConcurrency int `yaml:"section_concurrency"`
	// MaxWorkers bounds parallel filings within one runner pass.
	MaxWorkers int `yaml:"max_workers"`
}

func DefaultConfig() Config {
	return Config{
		SectionModel:   "gpt-4o-mini",
		SynthesisModel: "gpt-4o",
		ReportModel:    "gpt-4o",
		TargetSections: []string{"Business", "MD&A", "Risk Factors"},
		ReportSections: []string{
			"Business",
			"MD&A",
			"Risk Factors",
			"Financial Statements",
			"Legal Proceedings",
			"Properties",
			"Controls and Procedures",
		},
		FormTypes:            []string{"10-K", "10-Q"},
		ChunkSummaryTokens:   350,
		SectionSummaryTokens: 1200,
		BriefTokens:          1500,
		ReportTokens:         4000,
		Temperature:          0.2,
		MapConcurrency:       4,
		SectionConcurrency:   2,
		MaxWorkers:           4,
	}
}

// LoadConfig overlays a YAML file (optional) onto the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read pipeline config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse pipeline config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.SectionModel == "" || c.SynthesisModel == "" || c.ReportModel == "" {
		return fmt.Errorf("pipeline config: all model names are required")
	}
	if len(c.TargetSections) == 0 {
		return fmt.Errorf("pipeline config: target_sections must not be empty")
	}
	if len(c.ReportSections) == 0 {
		return fmt.Errorf("pipeline config: report_sections must not be empty")
	}
	if c.MapConcurrency < 1 || c.SectionConcurrency < 1 || c.MaxWorkers < 1 {
		return fmt.Errorf("pipeline config: concurrency limits must be >= 1")
	}
	return nil
}
