package entity

import "github.com/shopspring/decimal"

// Money montos monetarios (precio, subtotales, totales).
type Money = decimal.Decimal
