package repository

import "errors"

// ErrStateNotFound is returned when a symbol has no tStockState row.
var ErrStateNotFound = errors.New("stock state not found")
