package validity

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"hrv-analysis/internal/ecg"
	"hrv-analysis/pkg/utils"
)

// Сравнение валидности коротких и длинных окон измерения RMSSD:
// описательные статистики по каждому методу, согласие по Бланду-Альтману
// и линейная регрессия длинного окна на короткое.

// Pair — пара измерений одного испытуемого
type Pair struct {
	Subject string
	Short   float64 // RMSSD по короткому окну, мс
	Long    float64 // RMSSD по длинному окну, мс
}

// Descriptive — описательные статистики одного метода измерения
type Descriptive struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	Q1     float64
	Q3     float64
	Min    float64
	Max    float64
}

// BlandAltman — показатели согласия двух методов
type BlandAltman struct {
	Bias      float64 // среднее разностей long - short
	SD        float64 // стандартное отклонение разностей
	LoALower  float64 // нижняя граница 95% пределов согласия
	LoAUpper  float64 // верхняя граница
	PropSlope float64 // наклон разностей по средним (пропорциональное смещение)
}

// Regression — МНК-регрессия long ~ short
type Regression struct {
	Alpha    float64
	Beta     float64
	RSquared float64
}

// Comparison — полный результат сравнения методов
type Comparison struct {
	ShortStats Descriptive
	LongStats  Descriptive
	Agreement  BlandAltman
	Fit        Regression
}

// LoadPairs читает CSV с колонками subject,short,long (с заголовком)
func LoadPairs(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: открытие файла: %v", ecg.ErrData, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: чтение %s: %v", ecg.ErrData, path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: файл %s не содержит данных", ecg.ErrData, path)
	}

	pairs := make([]Pair, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: строка %d содержит меньше трех полей", ecg.ErrData, i+2)
		}
		short, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: строка %d, короткое окно: %v", ecg.ErrData, i+2, err)
		}
		long, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: строка %d, длинное окно: %v", ecg.ErrData, i+2, err)
		}
		pairs = append(pairs, Pair{Subject: row[0], Short: short, Long: long})
	}
	return pairs, nil
}

// Describe вычисляет описательные статистики одной выборки
func Describe(data []float64) Descriptive {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return Descriptive{
		N:      len(data),
		Mean:   stat.Mean(data, nil),
		StdDev: stat.StdDev(data, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// Compare выполняет полное сравнение методов. Требуется не менее трех пар.
func Compare(pairs []Pair) (*Comparison, error) {
	if len(pairs) < 3 {
		return nil, fmt.Errorf("%w: %d пар недостаточно для сравнения", ecg.ErrData, len(pairs))
	}

	shorts := make([]float64, len(pairs))
	longs := make([]float64, len(pairs))
	diffs := make([]float64, len(pairs))
	means := make([]float64, len(pairs))
	for i, p := range pairs {
		shorts[i] = p.Short
		longs[i] = p.Long
		diffs[i] = p.Long - p.Short
		means[i] = (p.Long + p.Short) / 2
	}

	bias := stat.Mean(diffs, nil)
	sd := stat.StdDev(diffs, nil)
	// наклон разностей по средним: признак пропорционального смещения
	_, propSlope := stat.LinearRegression(means, diffs, nil, false)

	alpha, beta := stat.LinearRegression(shorts, longs, nil, false)
	r2 := stat.RSquared(shorts, longs, nil, alpha, beta)

	return &Comparison{
		ShortStats: Describe(shorts),
		LongStats:  Describe(longs),
		Agreement: BlandAltman{
			Bias:      bias,
			SD:        sd,
			LoALower:  bias - 1.96*sd,
			LoAUpper:  bias + 1.96*sd,
			PropSlope: propSlope,
		},
		Fit: Regression{Alpha: alpha, Beta: beta, RSquared: r2},
	}, nil
}

// Export записывает результат сравнения в CSV
func Export(c *Comparison, runID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание файла результатов: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	records := [][]string{
		{"run_id", runID},
		{"metric", "short", "long"},
		{"n", itoa(c.ShortStats.N), itoa(c.LongStats.N)},
		{"mean", ftoa(c.ShortStats.Mean), ftoa(c.LongStats.Mean)},
		{"sd", ftoa(c.ShortStats.StdDev), ftoa(c.LongStats.StdDev)},
		{"median", ftoa(c.ShortStats.Median), ftoa(c.LongStats.Median)},
		{"q1", ftoa(c.ShortStats.Q1), ftoa(c.LongStats.Q1)},
		{"q3", ftoa(c.ShortStats.Q3), ftoa(c.LongStats.Q3)},
		{"min", ftoa(c.ShortStats.Min), ftoa(c.LongStats.Min)},
		{"max", ftoa(c.ShortStats.Max), ftoa(c.LongStats.Max)},
		{"bias", ftoa(c.Agreement.Bias)},
		{"loa_lower", ftoa(c.Agreement.LoALower)},
		{"loa_upper", ftoa(c.Agreement.LoAUpper)},
		{"prop_slope", ftoa(c.Agreement.PropSlope)},
		{"alpha", ftoa(c.Fit.Alpha)},
		{"beta", ftoa(c.Fit.Beta)},
		{"r_squared", ftoa(c.Fit.RSquared)},
	}
	return w.WriteAll(records)
}

// вырожденные значения (NaN при нулевой дисперсии) выгружаются нулями
func ftoa(v float64) string { return strconv.FormatFloat(utils.SafeFloat(v), 'f', 4, 64) }
func itoa(v int) string     { return strconv.Itoa(v) }
