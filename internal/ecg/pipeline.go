package ecg

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Params — параметры одного запуска конвейера. Все значения задаются
// вызывающей стороной, скрытых умолчаний нет.
type Params struct {
	SampleRate        float64    // частота дискретизации, Гц
	Resolution        float64    // мкВ на единицу младшего разряда
	ThresholdFraction float64    // доля глобального максимума для отбора ударов
	Filters           FilterSpec // каскад кондиционирования
}

// DefaultThresholdFraction — стандартная доля адаптивного порога
const DefaultThresholdFraction = 0.25

// Result — результат одного прогона конвейера. Все сущности создаются
// и потребляются в рамках одного вызова, состояние между запусками
// не сохраняется.
type Result struct {
	RunID         string    `json:"run_id"`
	Raw           []float64 `json:"-"`
	Conditioned   []float64 `json:"-"`
	Beats         []int     `json:"beats"`
	FilteredBeats []int     `json:"filtered_beats"`
	SampleRate    float64   `json:"sample_rate"`
}

// RejectedBeats возвращает число ударов, отброшенных адаптивным порогом
func (r *Result) RejectedBeats() int {
	return len(r.Beats) - len(r.FilteredBeats)
}

// Pipeline выполняет полный анализ одного сегмента записи ЭКГ
type Pipeline struct {
	log *zap.Logger
}

// NewPipeline создает конвейер; logger может быть nil
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{log: logger}
}

// AnalyzeFile читает файл с одной строкой отсчетов и запускает анализ
func (p *Pipeline) AnalyzeFile(path string, params Params) (*Result, error) {
	raw, err := ReadSignal(path)
	if err != nil {
		return nil, err
	}
	p.log.Info("Сигнал загружен",
		zap.String("file", path),
		zap.Int("samples", len(raw)))
	return p.Analyze(raw, params)
}

// Analyze прогоняет сырой сигнал через кондиционирование, детекцию
// ударов и адаптивный отбор. Метрики по обоим наборам ударов считает
// вызывающая сторона (пакет hrv) — дважды за запуск.
func (p *Pipeline) Analyze(raw []float64, params Params) (*Result, error) {
	if params.ThresholdFraction == 0 {
		params.ThresholdFraction = DefaultThresholdFraction
	}
	if params.Filters == (FilterSpec{}) {
		params.Filters = DefaultFilterSpec()
	}

	conditioned, err := Condition(raw, params.SampleRate, params.Resolution, params.Filters)
	if err != nil {
		return nil, fmt.Errorf("кондиционирование: %w", err)
	}

	beats, err := DetectBeats(conditioned, params.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("детекция ударов: %w", err)
	}
	p.log.Debug("Удары обнаружены", zap.Int("count", len(beats)))

	filtered, err := FilterBeats(beats, conditioned, params.ThresholdFraction)
	if err != nil {
		return nil, fmt.Errorf("адаптивный отбор: %w", err)
	}
	p.log.Info("Адаптивный отбор завершен",
		zap.Int("detected", len(beats)),
		zap.Int("retained", len(filtered)),
		zap.Float64("fraction", params.ThresholdFraction))

	if len(beats) == 3 || len(filtered) == 3 {
		p.log.Warn("Три удара: RMSSD вырождается в модуль единственной разности")
	}

	return &Result{
		RunID:         uuid.New().String(),
		Raw:           raw,
		Conditioned:   conditioned,
		Beats:         beats,
		FilteredBeats: filtered,
		SampleRate:    params.SampleRate,
	}, nil
}
