package report

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"hrv-analysis/internal/ecg"
	"hrv-analysis/internal/hrv"
)

// HRVReport — итог одного запуска конвейера: результат детекции и две
// независимые сводки метрик (полный набор ударов и отобранный)
type HRVReport struct {
	Result   *ecg.Result
	All      hrv.Summary
	Filtered hrv.Summary
}

// Print выводит сводные показатели запуска в консоль
func (r *HRVReport) Print(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "Запуск: %s\n", r.Result.RunID)
	fmt.Fprintf(w, "Обнаружено ударов: %d, после отбора: %d (отброшено %d)\n",
		len(r.Result.Beats), len(r.Result.FilteredBeats), r.Result.RejectedBeats())
	fmt.Fprintf(w, "RMSSD без отбора:   %.2f мс\n", r.All.RMSSD)
	fmt.Fprintf(w, "RMSSD после отбора: %.2f мс\n", r.Filtered.RMSSD)
	fmt.Fprintf(w, "Средняя ЧСС без отбора:   %.1f уд/мин\n", r.All.MeanHR)
	fmt.Fprintf(w, "Средняя ЧСС после отбора: %.1f уд/мин\n", r.Filtered.MeanHR)
}

// SavePlots строит три вертикально совмещенных графика (сырой сигнал,
// кондиционированный, кондиционированный с отметками ударов) и
// сохраняет их одним PNG
func (r *HRVReport) SavePlots(path string) error {
	fs := r.Result.SampleRate

	rawPlot := plot.New()
	rawPlot.Title.Text = "Сырой сигнал"
	rawPlot.Y.Label.Text = "усл. ед."
	if err := addSeries(rawPlot, r.Result.Raw, fs); err != nil {
		return err
	}

	condPlot := plot.New()
	condPlot.Title.Text = "После фильтрации"
	condPlot.Y.Label.Text = "мкВ"
	if err := addSeries(condPlot, r.Result.Conditioned, fs); err != nil {
		return err
	}

	beatPlot := plot.New()
	beatPlot.Title.Text = "Обнаруженные удары"
	beatPlot.X.Label.Text = "время, с"
	beatPlot.Y.Label.Text = "мкВ"
	if err := addSeries(beatPlot, r.Result.Conditioned, fs); err != nil {
		return err
	}
	if err := addBeats(beatPlot, r.Result.FilteredBeats, r.Result.Conditioned, fs); err != nil {
		return err
	}

	img := vgimg.New(20*vg.Centimeter, 18*vg.Centimeter)
	dc := draw.New(img)
	plots := [][]*plot.Plot{{rawPlot}, {condPlot}, {beatPlot}}
	canvases := plot.Align(plots, draw.Tiles{Rows: 3, Cols: 1}, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание файла графиков: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("запись графиков: %w", err)
	}
	return nil
}

func addSeries(p *plot.Plot, data []float64, fs float64) error {
	pts := make(plotter.XYs, len(data))
	for i, v := range data {
		pts[i].X = float64(i) / fs
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("построение линии: %w", err)
	}
	p.Add(line)
	return nil
}

func addBeats(p *plot.Plot, beats []int, data []float64, fs float64) error {
	pts := make(plotter.XYs, len(beats))
	for i, idx := range beats {
		pts[i].X = float64(idx) / fs
		pts[i].Y = data[idx]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("построение отметок ударов: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	return nil
}
