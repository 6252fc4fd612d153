package history

import (
	"github.com/WinPooh32/fixed"
)

const recordLen = 3

// Record is one trade: unix milliseconds, price and amount.
type Record struct {
	Time     int64
	Price    fixed.Fixed
	Quantity fixed.Fixed
}

type Writer interface {
	Write(t Record) (err error)
}

type Reader interface {
	Read() (t Record, err error)
}
