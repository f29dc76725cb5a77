package ecg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"hrv-analysis/pkg/utils"
)

const (
	// detectionFactor — порог обнаружения в единицах среднего
	// абсолютного уровня кондиционированного сигнала. Порог
	// намеренно низкий: детектор должен находить и слабые удары,
	// отбраковка по амплитуде — задача адаптивного фильтра
	detectionFactor = 1.5

	// refractorySec — рефрактерный период между ударами; повторные
	// срабатывания внутри него отбрасываются
	refractorySec = 0.2
)

// DetectBeats находит фидуциальные точки ударов сердца в
// кондиционированном сигнале. Возвращает строго возрастающие индексы
// отсчетов. Коррекция артефактов не применяется — выход детектора
// принимается как есть.
func DetectBeats(conditioned []float64, sampleRate float64) ([]int, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: частота дискретизации %.3f Гц", ErrConfiguration, sampleRate)
	}
	if len(conditioned) == 0 {
		return nil, fmt.Errorf("%w: пустой сигнал", ErrData)
	}

	// порог от среднего абсолютного уровня: следит за масштабом
	// сигнала, но не задирается одиночным выбросом
	threshold := detectionFactor * utils.MeanAbs(conditioned)
	refractory := int(refractorySec * sampleRate)

	beats := make([]int, 0, 64)
	lastBeat := -refractory - 1

	inRun := false
	peakIdx := 0
	peakVal := math.Inf(-1)

	for i, v := range conditioned {
		if v > threshold {
			if !inRun {
				inRun = true
				peakIdx = i
				peakVal = v
			} else if v > peakVal {
				peakIdx = i
				peakVal = v
			}
			continue
		}
		if inRun {
			if peakIdx-lastBeat > refractory {
				beats = append(beats, peakIdx)
				lastBeat = peakIdx
			}
			inRun = false
			peakVal = math.Inf(-1)
		}
	}
	if inRun && peakIdx-lastBeat > refractory {
		beats = append(beats, peakIdx)
	}

	if len(beats) == 0 {
		return nil, fmt.Errorf("%w: удары не обнаружены", ErrData)
	}
	return beats, nil
}

// FilterBeats отбирает удары по адаптивному амплитудному порогу:
// fraction от глобального максимума кондиционированного сигнала.
// Порог глобальный, не оконный — одиночный выброс завышает его на
// весь сегмент; поведение сохранено намеренно как документированное
// ограничение методики.
func FilterBeats(beats []int, conditioned []float64, fraction float64) ([]int, error) {
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("%w: доля порога %.3f вне [0, 1]", ErrConfiguration, fraction)
	}
	if len(conditioned) == 0 {
		return nil, fmt.Errorf("%w: пустой сигнал", ErrData)
	}

	threshold := fraction * floats.Max(conditioned)

	kept := make([]int, 0, len(beats))
	for _, idx := range beats {
		if idx < 0 || idx >= len(conditioned) {
			return nil, fmt.Errorf("%w: индекс удара %d вне сигнала", ErrData, idx)
		}
		if conditioned[idx] > threshold {
			kept = append(kept, idx)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: все удары ниже адаптивного порога %.3f", ErrData, threshold)
	}
	return kept, nil
}
