package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/WinPooh32/fixed"
	"github.com/hashicorp/go-multierror"
)

type HistoryReader struct {
	r     *csv.Reader
	count int
}

func NewReader(r io.Reader) (*HistoryReader, error) {
	rcsv := csv.NewReader(r)
	rcsv.Comma = ','
	rcsv.ReuseRecord = true

	return &HistoryReader{
		r: rcsv,
	}, nil
}

func (hr *HistoryReader) Read() (t Record, err error) {
	const (
		Time     = 0
		Price    = 1
		Quantity = 2
	)

	hr.count++

	record, err := hr.r.Read()
	if err == io.EOF {
		return t, err
	}
	if err != nil {
		return t, fmt.Errorf("read csv record: %w", err)
	}
	if len(record) < recordLen {
		return t, fmt.Errorf("record on line %d: wrong number of fields %d, expected not less than %d", hr.count, len(record), recordLen)
	}

	var merr *multierror.Error

	t.Time, err = strconv.ParseInt(record[Time], 10, 64)
	merr = multierror.Append(merr, err)

	t.Price, err = fixed.NewSErr(record[Price])
	merr = multierror.Append(merr, err)

	t.Quantity, err = fixed.NewSErr(record[Quantity])
	merr = multierror.Append(merr, err)

	if err := merr.ErrorOrNil(); err != nil {
		return t, fmt.Errorf("record on line %d: %w", hr.count, err)
	}
	return t, nil
}

// ReadAll reads records until EOF.
func (hr *HistoryReader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		t, err := hr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, t)
	}
}
