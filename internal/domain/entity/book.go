package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book representa un libro del catálogo. Pertenece exactamente a una Category.
type Book struct {
	ID          int64
	Name        string // único en todo el catálogo
	Author      string
	Description string
	Price       decimal.Decimal
	CategoryID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
