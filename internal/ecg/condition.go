package ecg

import (
	"fmt"

	"hrv-analysis/internal/dsp"
	"hrv-analysis/pkg/utils"
)

// FilterSpec задает параметры каскада фильтров кондиционирования
type FilterSpec struct {
	HighpassCutoff float64 // срез ФВЧ для удаления дрейфа изолинии, Гц
	HighpassOrder  int
	BandpassLow    float64 // нижняя граница полосы подавления шума, Гц
	BandpassHigh   float64
	BandpassOrder  int
}

// DefaultFilterSpec — стандартные параметры кондиционирования ЭКГ
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		HighpassCutoff: 0.5,
		HighpassOrder:  5,
		BandpassLow:    1.0,
		BandpassHigh:   50.0,
		BandpassOrder:  5,
	}
}

// Condition удаляет дрейф изолинии и широкополосный шум.
// Каскад: ФВЧ Баттерворта, затем полосовой, оба без фазового сдвига
// (прямой и обратный проходы). Длина сигнала сохраняется, амплитуда
// приводится к микровольтам через разрешение устройства.
func Condition(raw []float64, sampleRate, resolution float64, spec FilterSpec) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: частота дискретизации %.3f Гц", ErrConfiguration, sampleRate)
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: разрешение %.6f", ErrConfiguration, resolution)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: пустой сигнал", ErrData)
	}
	if utils.IsConstant(raw) {
		return nil, fmt.Errorf("%w: вырожденный (постоянный) сигнал", ErrData)
	}

	nyquist := sampleRate / 2
	if spec.HighpassCutoff >= nyquist || spec.BandpassHigh >= nyquist {
		return nil, fmt.Errorf("%w: частота среза не ниже частоты Найквиста %.3f Гц",
			ErrNumericInstability, nyquist)
	}

	// перевод в микровольты
	scaled := make([]float64, len(raw))
	for i, v := range raw {
		scaled[i] = v * resolution
	}

	hb, ha, err := dsp.Highpass(spec.HighpassOrder, spec.HighpassCutoff, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: ФВЧ: %v", ErrNumericInstability, err)
	}
	baselineFree, err := dsp.FiltFilt(hb, ha, scaled)
	if err != nil {
		return nil, fmt.Errorf("%w: применение ФВЧ: %v", ErrData, err)
	}

	bb, ba, err := dsp.Bandpass(spec.BandpassOrder, spec.BandpassLow, spec.BandpassHigh, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: полосовой фильтр: %v", ErrNumericInstability, err)
	}
	conditioned, err := dsp.FiltFilt(bb, ba, baselineFree)
	if err != nil {
		return nil, fmt.Errorf("%w: применение полосового фильтра: %v", ErrData, err)
	}

	if !utils.AllFinite(conditioned) {
		return nil, fmt.Errorf("%w: неконечные значения после фильтрации", ErrNumericInstability)
	}
	return conditioned, nil
}
