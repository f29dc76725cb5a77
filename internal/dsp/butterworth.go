package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Butterworth-фильтры проектируются через аналоговый прототип,
// частотное преобразование и билинейное преобразование.
// Результат — коэффициенты передаточной функции b (числитель)
// и a (знаменатель) в порядке убывания степеней, a[0] = 1.

// prototypePoles возвращает полюса аналогового прототипа Баттерворта
// (НЧ-фильтр с частотой среза 1 рад/с, все полюса в левой полуплоскости)
func prototypePoles(order int) []complex128 {
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		poles[k] = cmplx.Exp(complex(0, theta))
	}
	return poles
}

// polyFromRoots разворачивает корни в коэффициенты полинома
// (старшая степень первой, ведущий коэффициент 1)
func polyFromRoots(roots []complex128) []complex128 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	return coeffs
}

func realCoeffs(coeffs []complex128) []float64 {
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

func prodNeg(roots []complex128) complex128 {
	p := complex(1, 0)
	for _, r := range roots {
		p *= -r
	}
	return p
}

// bilinear переводит нули/полюса из s-плоскости в z-плоскость
func bilinear(zeros, poles []complex128, gain, fs float64) ([]complex128, []complex128, float64) {
	fs2 := complex(2*fs, 0)

	zd := make([]complex128, 0, len(poles))
	pd := make([]complex128, len(poles))

	num := complex(1, 0)
	den := complex(1, 0)

	for _, z := range zeros {
		zd = append(zd, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}
	for i, p := range poles {
		pd[i] = (fs2 + p) / (fs2 - p)
		den *= fs2 - p
	}

	// нули на бесконечности переходят в z = -1
	for len(zd) < len(pd) {
		zd = append(zd, complex(-1, 0))
	}

	return zd, pd, gain * real(num/den)
}

func warp(freq, fs float64) float64 {
	return 2 * fs * math.Tan(math.Pi*freq/fs)
}

func checkCoeffs(b, a []float64) error {
	for _, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("неконечный коэффициент числителя фильтра")
		}
	}
	for _, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("неконечный коэффициент знаменателя фильтра")
		}
	}
	if a[0] == 0 {
		return fmt.Errorf("вырожденный знаменатель фильтра")
	}
	return nil
}

// Highpass проектирует цифровой ФВЧ Баттерворта заданного порядка
func Highpass(order int, cutoff, fs float64) (b, a []float64, err error) {
	if order < 1 {
		return nil, nil, fmt.Errorf("порядок фильтра должен быть >= 1, получен %d", order)
	}
	if fs <= 0 {
		return nil, nil, fmt.Errorf("частота дискретизации должна быть положительной")
	}
	if cutoff <= 0 || cutoff >= fs/2 {
		return nil, nil, fmt.Errorf("частота среза %.3f Гц вне диапазона (0, %.3f)", cutoff, fs/2)
	}

	wo := warp(cutoff, fs)
	lp := prototypePoles(order)

	// НЧ -> ВЧ: p' = wo / p, нули порядка order в s = 0
	poles := make([]complex128, order)
	zeros := make([]complex128, order)
	for i, p := range lp {
		poles[i] = complex(wo, 0) / p
	}
	gain := 1.0 / real(prodNeg(lp))

	zd, pd, kd := bilinear(zeros, poles, gain, fs)

	b = realCoeffs(polyFromRoots(zd))
	a = realCoeffs(polyFromRoots(pd))
	for i := range b {
		b[i] *= kd
	}
	if err := checkCoeffs(b, a); err != nil {
		return nil, nil, err
	}
	return b, a, nil
}

// Bandpass проектирует цифровой полосовой фильтр Баттерворта.
// Итоговый порядок передаточной функции — удвоенный order.
func Bandpass(order int, low, high, fs float64) (b, a []float64, err error) {
	if order < 1 {
		return nil, nil, fmt.Errorf("порядок фильтра должен быть >= 1, получен %d", order)
	}
	if fs <= 0 {
		return nil, nil, fmt.Errorf("частота дискретизации должна быть положительной")
	}
	if low <= 0 || high >= fs/2 || low >= high {
		return nil, nil, fmt.Errorf("границы полосы (%.3f, %.3f) Гц вне диапазона (0, %.3f)", low, high, fs/2)
	}

	w1 := warp(low, fs)
	w2 := warp(high, fs)
	bw := w2 - w1
	wo := math.Sqrt(w1 * w2)

	lp := prototypePoles(order)

	// НЧ -> полосовой: каждый полюс расщепляется на пару
	poles := make([]complex128, 0, 2*order)
	for _, p := range lp {
		ps := p * complex(bw/2, 0)
		d := cmplx.Sqrt(ps*ps - complex(wo*wo, 0))
		poles = append(poles, ps+d, ps-d)
	}
	zeros := make([]complex128, order) // order нулей в s = 0
	gain := math.Pow(bw, float64(order)) / real(prodNeg(lp))

	zd, pd, kd := bilinear(zeros, poles, gain, fs)

	b = realCoeffs(polyFromRoots(zd))
	a = realCoeffs(polyFromRoots(pd))
	for i := range b {
		b[i] *= kd
	}
	if err := checkCoeffs(b, a); err != nil {
		return nil, nil, err
	}
	return b, a, nil
}
