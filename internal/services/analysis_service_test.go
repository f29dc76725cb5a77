package services

import (
	"errors"
	"math"
	"testing"

	"hrv-analysis/internal/ecg"
)

func syntheticRecording(n int, fs float64, positions []int, amplitudes []float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / fs
		out[i] = 0.3 * math.Sin(2*math.Pi*0.25*t)
	}
	for k, pos := range positions {
		for i := range out {
			z := (float64(i) - float64(pos)) / 3.0
			out[i] += amplitudes[k] * math.Exp(-0.5*z*z)
		}
	}
	return out
}

func TestRunHRVSignal_EndToEnd(t *testing.T) {
	positions := []int{200, 450, 700, 950, 1200, 1450, 1700, 1950, 2200, 2450}
	amps := []float64{1, 1, 1, 0.1, 1, 1, 1, 0.1, 1, 1}
	raw := syntheticRecording(2500, 250, positions, amps)

	svc := NewAnalysisService(nil)
	rep, err := svc.RunHRVSignal(raw, ecg.Params{
		SampleRate:        250,
		Resolution:        1.0,
		ThresholdFraction: 0.25,
	})
	if err != nil {
		t.Fatalf("RunHRVSignal failed: %v", err)
	}

	if rep.All.BeatCount != 10 {
		t.Errorf("Expected 10 beats in full set, got %d", rep.All.BeatCount)
	}
	if rep.Filtered.BeatCount != 8 {
		t.Errorf("Expected 8 beats in filtered set, got %d", rep.Filtered.BeatCount)
	}

	// RMSSD по отобранному набору должен вычисляться без ошибок
	if math.IsNaN(rep.Filtered.RMSSD) || rep.Filtered.RMSSD < 0 {
		t.Errorf("Expected computable non-negative RMSSD, got %g", rep.Filtered.RMSSD)
	}
	if math.IsNaN(rep.All.RMSSD) || rep.All.RMSSD < 0 {
		t.Errorf("Expected computable non-negative RMSSD for full set, got %g", rep.All.RMSSD)
	}

	// удары через ~1 с: средняя ЧСС около 60 уд/мин в обоих наборах
	if rep.All.MeanHR < 50 || rep.All.MeanHR > 75 {
		t.Errorf("Mean HR out of expected range: %g", rep.All.MeanHR)
	}
	if rep.Filtered.MeanHR < 40 || rep.Filtered.MeanHR > 80 {
		t.Errorf("Filtered mean HR out of expected range: %g", rep.Filtered.MeanHR)
	}
}

func TestRunHRVSignal_SingleBeat(t *testing.T) {
	// один обнаруженный удар: метрики не определены, нужна ошибка данных
	raw := syntheticRecording(2500, 250, []int{1250}, []float64{1})

	svc := NewAnalysisService(nil)
	if _, err := svc.RunHRVSignal(raw, ecg.Params{SampleRate: 250, Resolution: 1}); !errors.Is(err, ecg.ErrData) {
		t.Errorf("Expected ErrData for single-beat signal, got %v", err)
	}
}

func TestRunHRV_MissingFile(t *testing.T) {
	svc := NewAnalysisService(nil)
	if _, err := svc.RunHRV("/nonexistent/ecg.csv", ecg.Params{SampleRate: 250, Resolution: 1}); !errors.Is(err, ecg.ErrData) {
		t.Errorf("Expected ErrData for missing file, got %v", err)
	}
}
