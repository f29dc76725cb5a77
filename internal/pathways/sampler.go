package pathways

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"hrv-analysis/internal/ecg"
)

// Options — параметры MCMC-выборки
type Options struct {
	Draws  int     // число сохраняемых итераций
	BurnIn int     // отбрасываемый разогрев
	Step   float64 // шаг случайного блуждания
	Seed   uint64
}

// DefaultOptions — стандартные параметры выборки
func DefaultOptions() Options {
	return Options{
		Draws:  5000,
		BurnIn: 1000,
		Step:   0.05,
		Seed:   1,
	}
}

// Coefficient — сводка постериора одного коэффициента
type Coefficient struct {
	Name     string
	Mean     float64
	StdDev   float64
	CredLow  float64 // нижняя граница 95% доверительного интервала
	CredHigh float64
}

// Posterior — результат оценивания модели
type Posterior struct {
	Coefficients []Coefficient // свободный член, затем предикторы
	Sigma        Coefficient   // шумовая шкала
	AcceptRate   float64
}

// model — логарифм апостериорной плотности.
// Правдоподобие нормальное, априорные распределения: Normal(0, 10) на
// стандартизованные коэффициенты, Normal(0, 2) на логарифм шумовой
// шкалы (что дает слабоинформативный приор на сигму)
type model struct {
	ds        *Dataset
	coefPrior distuv.Normal
	logSPrior distuv.Normal
}

// параметризация: theta = [intercept, beta_1..beta_k, logSigma]
func (m *model) logPosterior(theta []float64) float64 {
	k := len(m.ds.Predictors)
	intercept := theta[0]
	betas := theta[1 : 1+k]
	logSigma := theta[1+k]
	sigma := math.Exp(logSigma)

	lp := m.coefPrior.LogProb(intercept)
	for _, b := range betas {
		lp += m.coefPrior.LogProb(b)
	}
	lp += m.logSPrior.LogProb(logSigma)

	like := distuv.Normal{Mu: 0, Sigma: sigma}
	for i, y := range m.ds.Y {
		pred := intercept
		for j, b := range betas {
			pred += b * m.ds.X[i][j]
		}
		lp += like.LogProb(y - pred)
	}
	return lp
}

// Fit оценивает постериор методом Метрополиса со случайным блужданием
func Fit(ds *Dataset, opts Options, logger *zap.Logger) (*Posterior, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Draws <= 0 || opts.BurnIn < 0 || opts.Step <= 0 {
		return nil, fmt.Errorf("%w: параметры выборки draws=%d burnin=%d step=%.4f",
			ecg.ErrConfiguration, opts.Draws, opts.BurnIn, opts.Step)
	}

	std, err := ds.Standardized()
	if err != nil {
		return nil, err
	}

	src := rand.NewSource(opts.Seed)
	rng := rand.New(src)
	proposal := distuv.Normal{Mu: 0, Sigma: opts.Step, Src: src}
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}

	m := &model{
		ds:        std,
		coefPrior: distuv.Normal{Mu: 0, Sigma: 10},
		logSPrior: distuv.Normal{Mu: 0, Sigma: 2},
	}

	dim := len(std.Predictors) + 2
	theta := make([]float64, dim)
	theta[0] = stat.Mean(std.Y, nil)
	theta[dim-1] = math.Log(math.Max(stat.StdDev(std.Y, nil), 1e-3))

	current := m.logPosterior(theta)
	chains := make([][]float64, dim)
	for i := range chains {
		chains[i] = make([]float64, 0, opts.Draws)
	}

	accepted := 0
	total := opts.BurnIn + opts.Draws
	candidate := make([]float64, dim)

	for iter := 0; iter < total; iter++ {
		copy(candidate, theta)
		// покоординатное блуждание дешевле настраивать, чем общее
		j := rng.Intn(dim)
		candidate[j] += proposal.Rand()

		cand := m.logPosterior(candidate)
		if cand-current > math.Log(uniform.Rand()) {
			copy(theta, candidate)
			current = cand
			accepted++
		}

		if iter >= opts.BurnIn {
			for d := 0; d < dim; d++ {
				chains[d] = append(chains[d], theta[d])
			}
		}

		if iter > 0 && iter%10000 == 0 {
			logger.Debug("MCMC прогресс",
				zap.Int("iter", iter),
				zap.Int("total", total),
				zap.Float64("log_posterior", current))
		}
	}

	names := append([]string{"intercept"}, std.Predictors...)
	post := &Posterior{
		Coefficients: make([]Coefficient, len(names)),
		AcceptRate:   float64(accepted) / float64(total),
	}
	for i, name := range names {
		post.Coefficients[i] = summarizeChain(name, chains[i])
	}

	// сигма отчитывается в исходной шкале
	sigmaChain := make([]float64, len(chains[dim-1]))
	for i, v := range chains[dim-1] {
		sigmaChain[i] = math.Exp(v)
	}
	post.Sigma = summarizeChain("sigma", sigmaChain)

	logger.Info("Оценивание завершено",
		zap.Float64("accept_rate", post.AcceptRate),
		zap.Int("draws", opts.Draws))
	return post, nil
}

func summarizeChain(name string, chain []float64) Coefficient {
	sorted := make([]float64, len(chain))
	copy(sorted, chain)
	sort.Float64s(sorted)

	return Coefficient{
		Name:     name,
		Mean:     stat.Mean(chain, nil),
		StdDev:   stat.StdDev(chain, nil),
		CredLow:  stat.Quantile(0.025, stat.Empirical, sorted, nil),
		CredHigh: stat.Quantile(0.975, stat.Empirical, sorted, nil),
	}
}

// Export записывает сводку постериора в CSV
func Export(p *Posterior, runID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание файла результатов: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	records := [][]string{
		{"run_id", runID, "", "", ""},
		{"coefficient", "mean", "sd", "cred_low", "cred_high"},
	}
	rows := append(append([]Coefficient{}, p.Coefficients...), p.Sigma)
	for _, c := range rows {
		records = append(records, []string{
			c.Name,
			strconv.FormatFloat(c.Mean, 'f', 4, 64),
			strconv.FormatFloat(c.StdDev, 'f', 4, 64),
			strconv.FormatFloat(c.CredLow, 'f', 4, 64),
			strconv.FormatFloat(c.CredHigh, 'f', 4, 64),
		})
	}
	return w.WriteAll(records)
}
