package valueobject

import (
	"fmt"
	"math"

	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const CurrencyBRL = "BRL"

// MaxAmount: предел колонок NUMERIC(12, 2).
const MaxAmount = 9_999_999_999.99

type Money struct {
	Amount   float64
	Currency string
}

// NewMoney округляет сумму до центов; результат должен быть строго положительным.
func NewMoney(amount float64, currency string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.Validation("сумма должна быть положительной")
	}
	rounded := math.Round(amount*100) / 100
	if rounded <= 0 {
		return Money{}, apperror.Validation("сумма должна быть положительной")
	}
	if rounded > MaxAmount {
		return Money{}, apperror.Validation(fmt.Sprintf("сумма не может превышать %.2f", MaxAmount))
	}
	if currency == "" {
		currency = CurrencyBRL
	}
	return Money{Amount: rounded, Currency: currency}, nil
}

func MustBRL(amount float64) Money {
	m, err := NewMoney(amount, CurrencyBRL)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}

// PriceRange: фильтр по почасовой ставке, границы включительно.
type PriceRange struct {
	Min *float64
	Max *float64
}

func NewPriceRange(min, max *float64) (PriceRange, error) {
	if min != nil && *min < 0 || max != nil && *max < 0 {
		return PriceRange{}, apperror.Validation("цена не может быть отрицательной")
	}
	if min != nil && max != nil && *min > *max {
		return PriceRange{}, apperror.Validation("минимальная цена не может превышать максимальную")
	}
	return PriceRange{Min: min, Max: max}, nil
}

func (r PriceRange) Contains(rate *float64) bool {
	if r.Min == nil && r.Max == nil {
		return true
	}
	if rate == nil {
		return false
	}
	if r.Min != nil && *rate < *r.Min {
		return false
	}
	if r.Max != nil && *rate > *r.Max {
		return false
	}
	return true
}
