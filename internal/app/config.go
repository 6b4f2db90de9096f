package app

import (
	"github.com/filinglens/filinglens-backend/internal/pipeline"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
	"github.com/filinglens/filinglens-backend/internal/utils"
)

type Config struct {
	// PipelineConfigPath points at the optional YAML pipeline config.
	PipelineConfigPath string
	// RedisAddr enables the optional brief cache when non-empty.
	RedisAddr string
	// Synthesize runs the top-level and report synthesizers after the
	// map/reduce pass.
	Synthesize bool

	Pipeline pipeline.Config
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		PipelineConfigPath: utils.GetEnv("PIPELINE_CONFIG", "", log),
		RedisAddr:          utils.GetEnv("REDIS_ADDR", "", log),
		Synthesize:         utils.GetEnv("PIPELINE_SYNTHESIZE", "false", log) == "true",
	}

	pipelineCfg, err := pipeline.LoadConfig(cfg.PipelineConfigPath)
	if err != nil {
		return cfg, err
	}
	cfg.Pipeline = pipelineCfg
	return cfg, nil
}
