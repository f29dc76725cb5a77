package centrality

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"hrv-analysis/internal/ecg"
)

func TestAnalyze_Chain(t *testing.T) {
	// rmssd -> stress -> illbeing: посредник лежит на единственном пути
	edges := []Edge{
		{From: "rmssd", To: "stress", Effect: -0.4},
		{From: "stress", To: "illbeing", Effect: 0.7},
	}

	scores, err := Analyze(edges)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 variables, got %d", len(scores))
	}

	byName := make(map[string]NodeScore)
	for _, s := range scores {
		byName[s.Variable] = s
	}

	if byName["stress"].Betweenness <= 0 {
		t.Errorf("Expected positive betweenness for mediator, got %g", byName["stress"].Betweenness)
	}
	if byName["rmssd"].Betweenness != 0 || byName["illbeing"].Betweenness != 0 {
		t.Errorf("Expected zero betweenness for endpoints, got %g and %g",
			byName["rmssd"].Betweenness, byName["illbeing"].Betweenness)
	}

	// сила ребер считается по модулю эффекта
	if math.Abs(byName["rmssd"].OutStrength-0.4) > 1e-9 {
		t.Errorf("Expected out-strength 0.4, got %g", byName["rmssd"].OutStrength)
	}
	if math.Abs(byName["stress"].InStrength-0.4) > 1e-9 {
		t.Errorf("Expected in-strength 0.4, got %g", byName["stress"].InStrength)
	}
	if math.Abs(byName["illbeing"].InStrength-0.7) > 1e-9 {
		t.Errorf("Expected in-strength 0.7, got %g", byName["illbeing"].InStrength)
	}

	// сток цепочки накапливает наибольший PageRank
	if byName["illbeing"].PageRank <= byName["rmssd"].PageRank {
		t.Errorf("Expected sink PageRank above source: %g vs %g",
			byName["illbeing"].PageRank, byName["rmssd"].PageRank)
	}
}

func TestAnalyze_SortedByPageRank(t *testing.T) {
	edges := []Edge{
		{From: "a", To: "c", Effect: 1},
		{From: "b", To: "c", Effect: 1},
		{From: "c", To: "d", Effect: 1},
	}

	scores, err := Analyze(edges)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for i := 1; i < len(scores); i++ {
		if scores[i].PageRank > scores[i-1].PageRank {
			t.Fatalf("Scores not sorted by PageRank: %v", scores)
		}
	}
}

func TestAnalyze_SelfLoop(t *testing.T) {
	edges := []Edge{{From: "stress", To: "stress", Effect: 0.5}}
	if _, err := Analyze(edges); !errors.Is(err, ecg.ErrData) {
		t.Errorf("Expected ErrData for self-loop, got %v", err)
	}
}

func TestAnalyze_EmptyEdges(t *testing.T) {
	if _, err := Analyze(nil); !errors.Is(err, ecg.ErrData) {
		t.Errorf("Expected ErrData for empty edge list, got %v", err)
	}
}

func TestLoadEdges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	content := "from,to,effect\nrmssd,stress,-0.4\nstress,illbeing,0.7\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	edges, err := LoadEdges(path)
	if err != nil {
		t.Fatalf("LoadEdges failed: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(edges))
	}
	if edges[0].From != "rmssd" || edges[0].To != "stress" || edges[0].Effect != -0.4 {
		t.Errorf("Unexpected first edge: %+v", edges[0])
	}
}

func TestLoadEdges_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("from,to,effect\na,b,xyz\n"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if _, err := LoadEdges(path); !errors.Is(err, ecg.ErrData) {
		t.Errorf("Expected ErrData, got %v", err)
	}
}

func TestExport(t *testing.T) {
	scores := []NodeScore{
		{Variable: "stress", PageRank: 0.4, Betweenness: 1, InStrength: 0.4, OutStrength: 0.7},
		{Variable: "rmssd", PageRank: 0.2, OutStrength: 0.4},
	}

	path := filepath.Join(t.TempDir(), "centrality.csv")
	if err := Export(scores, "test-run", path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Report file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Report file is empty")
	}
}
