package csv

import (
	"bytes"
	"encoding/csv"
)

// Record is anything that can be written as one CSV row.
type Record interface {
	CSVRecord() []string
}

type FilterFunc[T Record] func(T) bool

// Create renders header and every record accepted by filter. A nil filter
// keeps all records.
func Create[T Record](header []string, records []T, filter FilterFunc[T]) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// bytes.Buffer writes cannot fail, so the writer error is always nil.
	_ = w.Write(header)
	for _, r := range records {
		if filter == nil || filter(r) {
			_ = w.Write(r.CSVRecord())
		}
	}
	w.Flush()
	return buf.Bytes()
}

// And combines filters; a record must pass every non-nil one.
func And[T Record](filters ...FilterFunc[T]) FilterFunc[T] {
	return func(r T) bool {
		for _, f := range filters {
			if f != nil && !f(r) {
				return false
			}
		}
		return true
	}
}
