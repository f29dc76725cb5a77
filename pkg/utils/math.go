package utils

import (
	"math"
)

// SafeFloat заменяет NaN и Inf на 0 для безопасной выгрузки в отчеты
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// Mean вычисляет среднее значение
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// MeanAbs вычисляет среднее абсолютное значение
func MeanAbs(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range data {
		sum += math.Abs(v)
	}
	return sum / float64(len(data))
}

// Diff вычисляет разности соседних элементов
func Diff(data []float64) []float64 {
	if len(data) <= 1 {
		return []float64{}
	}

	result := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		result[i-1] = data[i] - data[i-1]
	}
	return result
}

// AllFinite проверяет что все значения конечны
func AllFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IsConstant проверяет что сигнал вырожден (все значения совпадают)
func IsConstant(data []float64) bool {
	if len(data) <= 1 {
		return true
	}
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}
