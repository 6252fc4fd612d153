package history

import (
	"fmt"
	"io"
)

type HistoryWriter struct {
	w io.Writer
}

func NewWriter(w io.Writer) (*HistoryWriter, error) {
	return &HistoryWriter{
		w: w,
	}, nil
}

func (fw *HistoryWriter) Write(t Record) (err error) {
	_, err = fmt.Fprintf(fw.w, "%d,%s,%s\n", t.Time, t.Price, t.Quantity)
	return err
}
