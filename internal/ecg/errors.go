package ecg

import "errors"

// Классы ошибок конвейера. Анализ офлайновый и строго fail-fast:
// ошибка поднимается в точке обнаружения, частичных результатов нет.
var (
	// ErrConfiguration — недопустимые параметры запуска (частота
	// дискретизации, разрешение, доля порога)
	ErrConfiguration = errors.New("недопустимая конфигурация")

	// ErrData — непригодные входные данные: битый файл, пустой или
	// вырожденный сигнал, недостаточно ударов для расчета интервалов
	ErrData = errors.New("непригодные данные")

	// ErrNumericInstability — проектирование фильтра дало неконечные
	// коэффициенты (например, частота среза выше частоты Найквиста)
	ErrNumericInstability = errors.New("численная неустойчивость фильтра")
)
