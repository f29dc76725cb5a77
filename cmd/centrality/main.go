package main

import (
	"flag"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrv-analysis/configs"
	"hrv-analysis/internal/centrality"
	"hrv-analysis/internal/logging"
)

func main() {
	cfg := configs.Load()

	input := flag.String("input", "", "CSV с колонками from,to,effect")
	output := flag.String("output", "centrality_report.csv", "CSV с таблицей центральностей")
	flag.Parse()

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()

	if *input == "" {
		logger.Fatal("Не указан входной файл (-input)")
	}

	runID := uuid.New().String()

	edges, err := centrality.LoadEdges(*input)
	if err != nil {
		logger.Fatal("Ребра не загружены", zap.Error(err))
	}
	logger.Info("Граф причинных эффектов загружен",
		zap.String("run_id", runID),
		zap.Int("edges", len(edges)))

	scores, err := centrality.Analyze(edges)
	if err != nil {
		logger.Fatal("Анализ не выполнен", zap.Error(err))
	}

	fmt.Printf("Запуск: %s\n", runID)
	fmt.Printf("%-20s %10s %12s %12s %12s\n", "variable", "pagerank", "betweenness", "in_str", "out_str")
	for _, s := range scores {
		fmt.Printf("%-20s %10.4f %12.4f %12.4f %12.4f\n",
			s.Variable, s.PageRank, s.Betweenness, s.InStrength, s.OutStrength)
	}

	if err := centrality.Export(scores, runID, *output); err != nil {
		logger.Fatal("Результаты не сохранены", zap.Error(err))
	}
	logger.Info("Результаты сохранены", zap.String("file", *output))
}
