package centrality

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"hrv-analysis/internal/ecg"
)

// Центральность переменных в ориентированном графе выведенных
// причинных эффектов: PageRank, посредничество и взвешенные
// входящая/исходящая силы.

// Edge — один причинный эффект между переменными
type Edge struct {
	From   string
	To     string
	Effect float64
}

// NodeScore — показатели центральности одной переменной
type NodeScore struct {
	Variable    string
	PageRank    float64
	Betweenness float64
	InStrength  float64 // сумма модулей входящих эффектов
	OutStrength float64 // сумма модулей исходящих эффектов
}

// LoadEdges читает CSV с колонками from,to,effect (с заголовком)
func LoadEdges(path string) ([]Edge, error) {
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
		return nil, fmt.Errorf("%w: файл %s не содержит ребер", ecg.ErrData, path)
	}

	edges := make([]Edge, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: строка %d содержит меньше трех полей", ecg.ErrData, i+2)
		}
		effect, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: строка %d, эффект: %v", ecg.ErrData, i+2, err)
		}
		edges = append(edges, Edge{From: row[0], To: row[1], Effect: effect})
	}
	return edges, nil
}

// Analyze строит взвешенный ориентированный граф и вычисляет
// показатели центральности каждой переменной
func Analyze(edges []Edge) ([]NodeScore, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: пустой список ребер", ecg.ErrData)
	}

	g := simple.NewWeightedDirectedGraph(0, 0)
	ids := make(map[string]int64)
	names := make(map[int64]string)

	nodeID := func(name string) int64 {
		if id, ok := ids[name]; ok {
			return id
		}
		id := int64(len(ids))
		ids[name] = id
		names[id] = name
		g.AddNode(simple.Node(id))
		return id
	}

	inStrength := make(map[int64]float64)
	outStrength := make(map[int64]float64)

	for _, e := range edges {
		if e.From == e.To {
			return nil, fmt.Errorf("%w: петля %s -> %s недопустима", ecg.ErrData, e.From, e.To)
		}
		from := nodeID(e.From)
		to := nodeID(e.To)
		g.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(from),
			T: simple.Node(to),
			W: e.Effect,
		})

		abs := e.Effect
		if abs < 0 {
			abs = -abs
		}
		outStrength[from] += abs
		inStrength[to] += abs
	}

	pr := network.PageRank(g, 0.85, 1e-6)
	bt := network.Betweenness(g)

	scores := make([]NodeScore, 0, len(ids))
	for id, name := range names {
		scores = append(scores, NodeScore{
			Variable:    name,
			PageRank:    pr[id],
			Betweenness: bt[id],
			InStrength:  inStrength[id],
			OutStrength: outStrength[id],
		})
	}

	// сортировка по убыванию PageRank, при равенстве — по имени
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].PageRank != scores[j].PageRank {
			return scores[i].PageRank > scores[j].PageRank
		}
		return scores[i].Variable < scores[j].Variable
	})
	return scores, nil
}

// Export записывает таблицу центральностей в CSV
func Export(scores []NodeScore, runID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание файла результатов: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	records := [][]string{
		{"run_id", runID, "", "", ""},
		{"variable", "pagerank", "betweenness", "in_strength", "out_strength"},
	}
	for _, s := range scores {
		records = append(records, []string{
			s.Variable,
			strconv.FormatFloat(s.PageRank, 'f', 6, 64),
			strconv.FormatFloat(s.Betweenness, 'f', 6, 64),
			strconv.FormatFloat(s.InStrength, 'f', 6, 64),
			strconv.FormatFloat(s.OutStrength, 'f', 6, 64),
		})
	}
	return w.WriteAll(records)
}
