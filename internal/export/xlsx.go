package export

import (
	"fmt"
	"io"

	"github.com/kingrea/casegen/internal/result"
	"github.com/xuri/excelize/v2"
)

// XLSX writes one sheet with a header row and no index column.
type XLSX struct{}

func (XLSX) Extension() string { return ".xlsx" }

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSX) Encode(w io.Writer, set *result.Set) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}
	header := make([]any, 0, len(set.Columns()))
	for _, col := range set.Columns() {
		header = append(header, col)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i := 0; i < set.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, set.Values(i)); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
