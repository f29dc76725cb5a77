package hrv

import (
	"fmt"
	"math"

	"hrv-analysis/internal/ecg"
	"hrv-analysis/pkg/utils"
)

// Summary — сводные метрики вариабельности по одному набору ударов
type Summary struct {
	BeatCount int     `json:"beat_count"`
	RMSSD     float64 `json:"rmssd"`
	MeanHR    float64 `json:"mean_hr"`
}

// RRIntervals вычисляет RR-интервалы в миллисекундах по индексам
// ударов. Требуется не менее двух ударов.
func RRIntervals(beats []int, sampleRate float64) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: частота дискретизации %.3f Гц", ecg.ErrConfiguration, sampleRate)
	}
	if len(beats) < 2 {
		return nil, fmt.Errorf("%w: %d ударов недостаточно для RR-интервалов", ecg.ErrData, len(beats))
	}

	msPerSample := 1000.0 / sampleRate
	rr := make([]float64, len(beats)-1)
	for i := 0; i < len(beats)-1; i++ {
		step := beats[i+1] - beats[i]
		if step <= 0 {
			return nil, fmt.Errorf("%w: индексы ударов не возрастают на позиции %d", ecg.ErrData, i)
		}
		rr[i] = float64(step) * msPerSample
	}
	return rr, nil
}

// RMSSD — корень из среднего квадрата последовательных разностей
// RR-интервалов. При одном интервале вырождается в модуль единственной
// разности; надежным значение считается от трех ударов.
func RMSSD(rr []float64) float64 {
	diffs := utils.Diff(rr)
	if len(diffs) == 0 {
		return math.NaN()
	}

	sumSquares := 0.0
	for _, d := range diffs {
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(diffs)))
}

// MeanHeartRate — средняя мгновенная ЧСС, уд/мин. Среднее поэлементных
// обратных величин, НЕ 60000/mean(RR): для нерегулярного ритма эти
// формулы расходятся, эталонное поведение — поэлементное.
func MeanHeartRate(rr []float64) float64 {
	if len(rr) == 0 {
		return math.NaN()
	}

	rates := make([]float64, len(rr))
	for i, v := range rr {
		rates[i] = 60000.0 / v
	}
	return utils.Mean(rates)
}

// Summarize вычисляет сводку по набору ударов
func Summarize(beats []int, sampleRate float64) (Summary, error) {
	rr, err := RRIntervals(beats, sampleRate)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		BeatCount: len(beats),
		RMSSD:     RMSSD(rr),
		MeanHR:    MeanHeartRate(rr),
	}, nil
}
