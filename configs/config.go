package configs

import (
	"os"
	"strconv"
)

type Config struct {
	Pipeline PipelineConfig
	Filters  FilterConfig
	Sampler  SamplerConfig
	Logging  LoggingConfig
}

type PipelineConfig struct {
	SampleRate        float64 // Гц
	Resolution        float64 // мкВ на единицу младшего разряда
	ThresholdFraction float64
}

type FilterConfig struct {
	HighpassCutoff float64
	HighpassOrder  int
	BandpassLow    float64
	BandpassHigh   float64
	BandpassOrder  int
}

type SamplerConfig struct {
	Draws  int
	BurnIn int
	Step   float64
	Seed   uint64
}

type LoggingConfig struct {
	Level  string
	Format string // "console" или "json"
}

func Load() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			SampleRate:        getEnvFloat("ECG_SAMPLE_RATE", 250),
			Resolution:        getEnvFloat("ECG_RESOLUTION", 1.0),
			ThresholdFraction: getEnvFloat("ECG_THRESHOLD_FRACTION", 0.25),
		},
		Filters: FilterConfig{
			HighpassCutoff: getEnvFloat("ECG_HIGHPASS_CUTOFF", 0.5),
			HighpassOrder:  getEnvInt("ECG_HIGHPASS_ORDER", 5),
			BandpassLow:    getEnvFloat("ECG_BANDPASS_LOW", 1.0),
			BandpassHigh:   getEnvFloat("ECG_BANDPASS_HIGH", 50.0),
			BandpassOrder:  getEnvInt("ECG_BANDPASS_ORDER", 5),
		},
		Sampler: SamplerConfig{
			Draws:  getEnvInt("MCMC_DRAWS", 5000),
			BurnIn: getEnvInt("MCMC_BURNIN", 1000),
			Step:   getEnvFloat("MCMC_STEP", 0.05),
			Seed:   uint64(getEnvInt("MCMC_SEED", 1)),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}
