package pathways

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"hrv-analysis/internal/ecg"
)

// Байесовская множественная регрессия субъективного благополучия на
// вариабельность сердечного ритма и психосоциальные предикторы.
// Предикторы стандартизуются, постериор оценивается методом
// Метрополиса со случайным блужданием.

// Dataset — выборка для регрессии
type Dataset struct {
	Outcome    string      // имя зависимой переменной
	Predictors []string    // имена предикторов
	Y          []float64   // значения исхода
	X          [][]float64 // строки наблюдений, колонки предикторов
}

// Standardized возвращает копию с предикторами, приведенными к
// нулевому среднему и единичному отклонению
func (d *Dataset) Standardized() (*Dataset, error) {
	n := len(d.Y)
	k := len(d.Predictors)

	out := &Dataset{
		Outcome:    d.Outcome,
		Predictors: d.Predictors,
		Y:          d.Y,
		X:          make([][]float64, n),
	}
	for i := range out.X {
		out.X[i] = make([]float64, k)
	}

	col := make([]float64, n)
	for j := 0; j < k; j++ {
		for i := 0; i < n; i++ {
			col[i] = d.X[i][j]
		}
		mean := stat.Mean(col, nil)
		sd := stat.StdDev(col, nil)
		if sd == 0 || math.IsNaN(sd) {
			return nil, fmt.Errorf("%w: предиктор %s постоянен", ecg.ErrData, d.Predictors[j])
		}
		for i := 0; i < n; i++ {
			out.X[i][j] = (col[i] - mean) / sd
		}
	}
	return out, nil
}

// LoadDataset читает CSV: первая колонка — исход, остальные —
// предикторы, первая строка — заголовок
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: открытие файла: %v", ecg.ErrData, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: чтение %s: %v", ecg.ErrData, path, err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("%w: файл %s: нужны заголовок, исход и хотя бы один предиктор", ecg.ErrData, path)
	}

	header := rows[0]
	ds := &Dataset{
		Outcome:    header[0],
		Predictors: header[1:],
	}

	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: строка %d: ожидалось %d полей", ecg.ErrData, i+2, len(header))
		}
		y, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: строка %d, исход: %v", ecg.ErrData, i+2, err)
		}
		xs := make([]float64, len(row)-1)
		for j, field := range row[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: строка %d, %s: %v", ecg.ErrData, i+2, header[j+1], err)
			}
			xs[j] = v
		}
		ds.Y = append(ds.Y, y)
		ds.X = append(ds.X, xs)
	}

	if len(ds.Y) <= len(ds.Predictors)+2 {
		return nil, fmt.Errorf("%w: %d наблюдений мало для %d предикторов",
			ecg.ErrData, len(ds.Y), len(ds.Predictors))
	}
	return ds, nil
}
