package services

import (
	"fmt"

	"go.uber.org/zap"

	"hrv-analysis/internal/ecg"
	"hrv-analysis/internal/hrv"
	"hrv-analysis/internal/report"
)

// AnalysisService связывает конвейер ЭКГ и расчет метрик
type AnalysisService struct {
	pipeline *ecg.Pipeline
	log      *zap.Logger
}

// NewAnalysisService создает сервис анализа; logger может быть nil
func NewAnalysisService(logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		pipeline: ecg.NewPipeline(logger),
		log:      logger,
	}
}

// RunHRV выполняет полный анализ файла записи: кондиционирование,
// детекция, адаптивный отбор, затем метрики по обоим наборам ударов
func (s *AnalysisService) RunHRV(path string, params ecg.Params) (*report.HRVReport, error) {
	result, err := s.pipeline.AnalyzeFile(path, params)
	if err != nil {
		return nil, err
	}
	return s.summarize(result)
}

// RunHRVSignal выполняет тот же анализ над уже загруженным сигналом
func (s *AnalysisService) RunHRVSignal(raw []float64, params ecg.Params) (*report.HRVReport, error) {
	result, err := s.pipeline.Analyze(raw, params)
	if err != nil {
		return nil, err
	}
	return s.summarize(result)
}

func (s *AnalysisService) summarize(result *ecg.Result) (*report.HRVReport, error) {
	all, err := hrv.Summarize(result.Beats, result.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("метрики по полному набору: %w", err)
	}

	filtered, err := hrv.Summarize(result.FilteredBeats, result.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("метрики по отобранному набору: %w", err)
	}

	s.log.Info("Метрики рассчитаны",
		zap.String("run_id", result.RunID),
		zap.Float64("rmssd_all", all.RMSSD),
		zap.Float64("rmssd_filtered", filtered.RMSSD))

	return &report.HRVReport{
		Result:   result,
		All:      all,
		Filtered: filtered,
	}, nil
}
