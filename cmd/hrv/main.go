package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"hrv-analysis/configs"
	"hrv-analysis/internal/ecg"
	"hrv-analysis/internal/logging"
	"hrv-analysis/internal/services"
)

func main() {
	cfg := configs.Load()

	input := flag.String("input", "", "файл с одной строкой отсчетов ЭКГ")
	plots := flag.String("plots", "hrv_plots.png", "файл для сохранения графиков")
	sampleRate := flag.Float64("fs", cfg.Pipeline.SampleRate, "частота дискретизации, Гц")
	resolution := flag.Float64("resolution", cfg.Pipeline.Resolution, "мкВ на единицу младшего разряда")
	fraction := flag.Float64("fraction", cfg.Pipeline.ThresholdFraction, "доля адаптивного порога")
	flag.Parse()

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()

	if *input == "" {
		logger.Fatal("Не указан входной файл (-input)")
	}

	service := services.NewAnalysisService(logger)
	result, err := service.RunHRV(*input, ecg.Params{
		SampleRate:        *sampleRate,
		Resolution:        *resolution,
		ThresholdFraction: *fraction,
		Filters: ecg.FilterSpec{
			HighpassCutoff: cfg.Filters.HighpassCutoff,
			HighpassOrder:  cfg.Filters.HighpassOrder,
			BandpassLow:    cfg.Filters.BandpassLow,
			BandpassHigh:   cfg.Filters.BandpassHigh,
			BandpassOrder:  cfg.Filters.BandpassOrder,
		},
	})
	if err != nil {
		logger.Fatal("Анализ не выполнен", zap.Error(err))
	}

	result.Print(os.Stdout)

	if err := result.SavePlots(*plots); err != nil {
		logger.Fatal("Графики не сохранены", zap.Error(err))
	}
	logger.Info("Графики сохранены", zap.String("file", *plots))
}
