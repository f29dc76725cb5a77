package ecg

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadSignal читает файл с одной строкой числовых отсчетов ЭКГ
// и возвращает их как плоский массив
func ReadSignal(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: открытие файла: %v", ErrData, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	record, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: файл %s пуст", ErrData, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: чтение %s: %v", ErrData, path, err)
	}

	// формат — ровно одна строка отсчетов
	if _, err := reader.Read(); err != io.EOF {
		return nil, fmt.Errorf("%w: файл %s содержит больше одной строки", ErrData, path)
	}

	samples := make([]float64, 0, len(record))
	for i, field := range record {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: отсчет %d (%q) не является числом", ErrData, i, field)
		}
		samples = append(samples, v)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: файл %s не содержит отсчетов", ErrData, path)
	}
	return samples, nil
}
