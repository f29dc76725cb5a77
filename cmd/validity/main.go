package main

import (
	"flag"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrv-analysis/configs"
	"hrv-analysis/internal/logging"
	"hrv-analysis/internal/validity"
)

func main() {
	cfg := configs.Load()

	input := flag.String("input", "", "CSV с колонками subject,short,long")
	output := flag.String("output", "validity_report.csv", "CSV с результатами сравнения")
	flag.Parse()

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()

	if *input == "" {
		logger.Fatal("Не указан входной файл (-input)")
	}

	runID := uuid.New().String()

	pairs, err := validity.LoadPairs(*input)
	if err != nil {
		logger.Fatal("Данные не загружены", zap.Error(err))
	}
	logger.Info("Пары измерений загружены",
		zap.String("run_id", runID),
		zap.Int("pairs", len(pairs)))

	result, err := validity.Compare(pairs)
	if err != nil {
		logger.Fatal("Сравнение не выполнено", zap.Error(err))
	}

	fmt.Printf("Запуск: %s\n", runID)
	fmt.Printf("Короткое окно: mean %.2f, sd %.2f, median %.2f\n",
		result.ShortStats.Mean, result.ShortStats.StdDev, result.ShortStats.Median)
	fmt.Printf("Длинное окно:  mean %.2f, sd %.2f, median %.2f\n",
		result.LongStats.Mean, result.LongStats.StdDev, result.LongStats.Median)
	fmt.Printf("Бланд-Альтман: смещение %.2f, пределы согласия [%.2f, %.2f]\n",
		result.Agreement.Bias, result.Agreement.LoALower, result.Agreement.LoAUpper)
	fmt.Printf("Регрессия: long = %.3f + %.3f*short, R^2 = %.3f\n",
		result.Fit.Alpha, result.Fit.Beta, result.Fit.RSquared)

	if err := validity.Export(result, runID, *output); err != nil {
		logger.Fatal("Результаты не сохранены", zap.Error(err))
	}
	logger.Info("Результаты сохранены", zap.String("file", *output))
}
