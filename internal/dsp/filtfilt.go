package dsp

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Filter применяет БИХ-фильтр в прямой форме II (транспонированной).
// state — начальное состояние длины max(len(a), len(b)) - 1, может быть nil.
func Filter(b, a, x []float64, state []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	// выравнивание коэффициентов по длине и нормализация a[0] = 1
	bn := make([]float64, n)
	an := make([]float64, n)
	copy(bn, b)
	copy(an, a)
	if an[0] != 1 {
		a0 := an[0]
		for i := range bn {
			bn[i] /= a0
		}
		for i := range an {
			an[i] /= a0
		}
	}

	z := make([]float64, n-1)
	copy(z, state)

	y := make([]float64, len(x))
	for i, xi := range x {
		yi := bn[0]*xi + z[0]
		for j := 0; j < n-2; j++ {
			z[j] = bn[j+1]*xi + z[j+1] - an[j+1]*yi
		}
		z[n-2] = bn[n-1]*xi - an[n-1]*yi
		y[i] = yi
	}
	return y
}

// steadyState вычисляет начальное состояние фильтра для единичного
// входа, чтобы подавить переходный процесс на краях
func steadyState(b, a []float64) ([]float64, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	bn := make([]float64, n)
	an := make([]float64, n)
	copy(bn, b)
	copy(an, a)

	m := n - 1
	sys := mat.NewDense(m, m, nil)
	rhs := mat.NewVecDense(m, nil)

	// (I - C^T) zi = b[1:] - a[1:]*b[0], где C — сопровождающая матрица a
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			v := 0.0
			if i == j {
				v = 1.0
			}
			// C[j][i]: первая строка -a[1:], поддиагональ единичная
			if j == 0 {
				v -= -an[i+1]
			} else if j == i+1 {
				v -= 1.0
			}
			sys.Set(i, j, v)
		}
		rhs.SetVec(i, bn[i+1]-an[i+1]*bn[0])
	}

	zi := mat.NewVecDense(m, nil)
	if err := zi.SolveVec(sys, rhs); err != nil {
		return nil, fmt.Errorf("вырожденная система начального состояния: %w", err)
	}
	return zi.RawVector().Data, nil
}

// FiltFilt применяет фильтр вперед и назад, устраняя фазовый сдвиг.
// Края защищаются нечетным продолжением сигнала.
func FiltFilt(b, a, x []float64) ([]float64, error) {
	ntaps := len(a)
	if len(b) > ntaps {
		ntaps = len(b)
	}
	padlen := 3 * (ntaps - 1)

	if len(x) <= padlen {
		return nil, fmt.Errorf("длина сигнала %d не превышает требуемое продолжение %d", len(x), padlen)
	}

	n := len(x)
	ext := make([]float64, 0, n+2*padlen)
	for i := padlen; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := 1; i <= padlen; i++ {
		ext = append(ext, 2*x[n-1]-x[n-1-i])
	}

	zi, err := steadyState(b, a)
	if err != nil {
		return nil, err
	}

	state := make([]float64, len(zi))

	// прямой проход
	copy(state, zi)
	floats.Scale(ext[0], state)
	y := Filter(b, a, ext, state)

	// обратный проход
	floats.Reverse(y)
	copy(state, zi)
	floats.Scale(y[0], state)
	y = Filter(b, a, y, state)
	floats.Reverse(y)

	return y[padlen : padlen+n], nil
}
