package pathways

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/exp/rand"

	"hrv-analysis/internal/ecg"
)

// syntheticDataset генерирует y = 2 + 1.5*x1 - 0.8*x2 + шум
func syntheticDataset(n int, seed uint64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	ds := &Dataset{
		Outcome:    "wellbeing",
		Predictors: []string{"rmssd", "stress"},
	}
	for i := 0; i < n; i++ {
		x1 := rng.NormFloat64()
		x2 := rng.NormFloat64()
		y := 2 + 1.5*x1 - 0.8*x2 + 0.5*rng.NormFloat64()
		ds.Y = append(ds.Y, y)
		ds.X = append(ds.X, []float64{x1, x2})
	}
	return ds
}

func TestStandardized(t *testing.T) {
	ds := syntheticDataset(100, 7)
	std, err := ds.Standardized()
	if err != nil {
		t.Fatalf("Standardized failed: %v", err)
	}

	for j := range std.Predictors {
		sum, sumSq := 0.0, 0.0
		for i := range std.X {
			sum += std.X[i][j]
			sumSq += std.X[i][j] * std.X[i][j]
		}
		n := float64(len(std.X))
		mean := sum / n
		sd := math.Sqrt((sumSq - sum*sum/n) / (n - 1))

		if math.Abs(mean) > 1e-9 {
			t.Errorf("Predictor %d: expected zero mean, got %g", j, mean)
		}
		if math.Abs(sd-1) > 1e-9 {
			t.Errorf("Predictor %d: expected unit SD, got %g", j, sd)
		}
	}
}

func TestStandardized_ConstantPredictor(t *testing.T) {
	ds := &Dataset{
		Outcome:    "y",
		Predictors: []string{"flat"},
		Y:          []float64{1, 2, 3, 4, 5},
		X:          [][]float64{{7}, {7}, {7}, {7}, {7}},
	}
	if _, err := ds.Standardized(); !errors.Is(err, ecg.ErrData) {
		t.Errorf("Expected ErrData for constant predictor, got %v", err)
	}
}

func TestFit_RecoversCoefficients(t *testing.T) {
	if testing.Short() {
		t.Skip("MCMC test skipped in short mode")
	}

	ds := syntheticDataset(200, 42)
	post, err := Fit(ds, Options{Draws: 6000, BurnIn: 2000, Step: 0.05, Seed: 1}, nil)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(post.Coefficients) != 3 {
		t.Fatalf("Expected intercept + 2 coefficients, got %d", len(post.Coefficients))
	}

	// предикторы генерируются ~N(0,1), так что стандартизованные
	// коэффициенты близки к истинным
	checks := []struct {
		name     string
		got      float64
		expected float64
		tol      float64
	}{
		{"intercept", post.Coefficients[0].Mean, 2.0, 0.4},
		{"rmssd", post.Coefficients[1].Mean, 1.5, 0.4},
		{"stress", post.Coefficients[2].Mean, -0.8, 0.4},
		{"sigma", post.Sigma.Mean, 0.5, 0.3},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > c.tol {
			t.Errorf("%s: expected %g +/- %g, got %g", c.name, c.expected, c.tol, c.got)
		}
	}

	for _, c := range post.Coefficients {
		if c.CredLow > c.Mean || c.Mean > c.CredHigh {
			t.Errorf("%s: mean %g outside credible interval [%g, %g]",
				c.Name, c.Mean, c.CredLow, c.CredHigh)
		}
	}

	if post.AcceptRate <= 0.05 || post.AcceptRate >= 0.95 {
		t.Errorf("Acceptance rate %g outside reasonable range", post.AcceptRate)
	}
	t.Logf("Acceptance rate: %.2f", post.AcceptRate)
}

func TestFit_InvalidOptions(t *testing.T) {
	ds := syntheticDataset(50, 3)

	if _, err := Fit(ds, Options{Draws: 0, BurnIn: 100, Step: 0.1}, nil); !errors.Is(err, ecg.ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for zero draws, got %v", err)
	}
	if _, err := Fit(ds, Options{Draws: 100, BurnIn: 10, Step: 0}, nil); !errors.Is(err, ecg.ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for zero step, got %v", err)
	}
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "wellbeing,rmssd,stress\n7.2,45,3\n5.1,30,6\n8.0,55,2\n6.4,40,4\n5.9,35,5\n7.7,50,3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if ds.Outcome != "wellbeing" {
		t.Errorf("Expected outcome 'wellbeing', got %q", ds.Outcome)
	}
	if len(ds.Predictors) != 2 || len(ds.Y) != 6 {
		t.Errorf("Unexpected shape: %d predictors, %d rows", len(ds.Predictors), len(ds.Y))
	}
	if ds.X[1][1] != 6 {
		t.Errorf("Expected X[1][1]=6, got %g", ds.X[1][1])
	}
}

func TestLoadDataset_TooFewObservations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.csv")
	content := "y,x1,x2\n1,2,3\n4,5,6\n7,8,9\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if _, err := LoadDataset(path); !errors.Is(err, ecg.ErrData) {
		t.Errorf("Expected ErrData for too few observations, got %v", err)
	}
}
