package main

import (
	"flag"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrv-analysis/configs"
	"hrv-analysis/internal/logging"
	"hrv-analysis/internal/pathways"
)

func main() {
	cfg := configs.Load()

	input := flag.String("input", "", "CSV: первая колонка исход, остальные предикторы")
	output := flag.String("output", "pathways_report.csv", "CSV со сводкой постериора")
	draws := flag.Int("draws", cfg.Sampler.Draws, "число сохраняемых итераций MCMC")
	burnin := flag.Int("burnin", cfg.Sampler.BurnIn, "итерации разогрева")
	step := flag.Float64("step", cfg.Sampler.Step, "шаг случайного блуждания")
	seed := flag.Uint64("seed", cfg.Sampler.Seed, "зерно генератора")
	flag.Parse()

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()

	if *input == "" {
		logger.Fatal("Не указан входной файл (-input)")
	}

	runID := uuid.New().String()

	ds, err := pathways.LoadDataset(*input)
	if err != nil {
		logger.Fatal("Данные не загружены", zap.Error(err))
	}
	logger.Info("Выборка загружена",
		zap.String("run_id", runID),
		zap.String("outcome", ds.Outcome),
		zap.Int("observations", len(ds.Y)),
		zap.Int("predictors", len(ds.Predictors)))

	post, err := pathways.Fit(ds, pathways.Options{
		Draws:  *draws,
		BurnIn: *burnin,
		Step:   *step,
		Seed:   *seed,
	}, logger)
	if err != nil {
		logger.Fatal("Оценивание не выполнено", zap.Error(err))
	}

	fmt.Printf("Запуск: %s (accept rate %.2f)\n", runID, post.AcceptRate)
	fmt.Printf("%-20s %10s %10s %10s %10s\n", "coefficient", "mean", "sd", "2.5%", "97.5%")
	for _, c := range append(post.Coefficients, post.Sigma) {
		fmt.Printf("%-20s %10.4f %10.4f %10.4f %10.4f\n",
			c.Name, c.Mean, c.StdDev, c.CredLow, c.CredHigh)
	}

	if err := pathways.Export(post, runID, *output); err != nil {
		logger.Fatal("Результаты не сохранены", zap.Error(err))
	}
	logger.Info("Результаты сохранены", zap.String("file", *output))
}
