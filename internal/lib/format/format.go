// Package format содержит чистые функции форматирования сумм, дат и длительностей
// для публичных страниц платформы, а также расчет рассрочки платежей.
//
// Все денежные значения выводятся в долларах США с группировкой разрядов
// по правилам en-US локали.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency форматирует сумму в долларах: 1800 -> "$1,800.00".
func Currency(amount float64) string {
	return printer.Sprintf("$%v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// CurrencyCents форматирует сумму, заданную в центах: 38000 -> "$380.00".
func CurrencyCents(cents int64) string {
	return Currency(float64(cents) / 100)
}

// Date форматирует дату для публичных страниц: "January 2, 2006".
func Date(t time.Time) string {
	return t.Format("January 2, 2006")
}

// DurationMinutes форматирует длительность экзамена или курса, заданную в минутах.
//
// 45 -> "45 min", 90 -> "1 h 30 min", 120 -> "2 h".
func DurationMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}

// Installments делит сумму на равные ежемесячные платежи.
//
// Каждый из первых months-1 платежей равен округленной до цента доле total/months,
// накопленный остаток округления прибавляется к последнему платежу, поэтому
// сумма всех платежей в точности равна total. Расчет ведется в центах,
// чтобы исключить накопление ошибки плавающей точки.
func Installments(total float64, months int) ([]float64, error) {
	const op = "format.Installments"
	if months < 1 {
		return nil, fmt.Errorf("%s: months must be >= 1, got %d", op, months)
	}

	totalCents := int64(math.Round(total * 100))
	perCents := int64(math.Round(float64(totalCents) / float64(months)))

	result := make([]float64, months)
	var paid int64
	for i := range months - 1 {
		result[i] = float64(perCents) / 100
		paid += perCents
	}
	result[months-1] = float64(totalCents-paid) / 100
	return result, nil
}

// InstallmentsCents вариант Installments для сумм, хранящихся в центах.
func InstallmentsCents(totalCents int64, months int) ([]int64, error) {
	const op = "format.InstallmentsCents"
	if months < 1 {
		return nil, fmt.Errorf("%s: months must be >= 1, got %d", op, months)
	}

	perCents := int64(math.Round(float64(totalCents) / float64(months)))
	result := make([]int64, months)
	var paid int64
	for i := range months - 1 {
		result[i] = perCents
		paid += perCents
	}
	result[months-1] = totalCents - paid
	return result, nil
}
