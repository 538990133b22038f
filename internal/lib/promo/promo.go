// Package promo содержит таблицу промокодов и арифметику скидок.
//
// Промокод — статическая строка, открывающая фиксированный процент скидки
// на платный курс. Сравнение кода точное: регистр учитывается, пробелы
// на сервере не обрезаются.
package promo

import "math"

// Code — единственный распознаваемый промокод.
const Code = "BFSALE25"

// Discount — доля скидки, которую дает промокод.
const Discount = 0.5

// IsValid сообщает, распознан ли промокод. Сравнение точное,
// без приведения регистра и без обрезки пробелов.
func IsValid(code string) bool {
	return code == Code
}

// ApplyDiscount возвращает цену после применения скидки промокода,
// округленную до 2 знаков. Счет ведется в центах, чтобы двоичное
// представление цены не влияло на результат; половина цента
// округляется от нуля, как при денежном форматировании.
func ApplyDiscount(price float64) float64 {
	cents := math.Round(price * 100)
	discounted := cents * (1 - Discount)
	return math.Floor(discounted+0.5) / 100
}
