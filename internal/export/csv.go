package export

import (
	"encoding/csv"
	"io"

	"github.com/kingrea/casegen/internal/result"
)

// CSV writes a header row followed by one record per row.
type CSV struct{}

func (CSV) Extension() string   { return ".csv" }
func (CSV) ContentType() string { return "text/csv" }

func (CSV) Encode(w io.Writer, set *result.Set) error {
	cw := csv.NewWriter(w)
	cols := set.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	var err error
	set.Each(func(_ int, row result.Row) {
		if err != nil {
			return
		}
		for j, col := range cols {
			record[j] = row.Text(col)
		}
		err = cw.Write(record)
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
