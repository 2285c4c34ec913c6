// Package result holds the rows a product module produced and the summary
// logic applied to them.
package result

import (
	"fmt"
	"sort"
)

// Conventional column names the aggregator understands.
const (
	ColumnTestType   = "Test_Type"
	ColumnEpic       = "Epic"
	RuleColumnPrefix = "Rule_"

	TestTypePositive = "Positive"
	TestTypeNegative = "Negative"
)

// leadingColumns are placed first when columns are derived from loose records.
var leadingColumns = []string{"TUID", ColumnEpic, ColumnTestType}

// Row is one synthesized test case. Only the conventional columns carry
// meaning here.
type Row map[string]any

// Text returns the textual value of column, or "" when absent.
func (r Row) Text(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Set is the immutable row collection of one generation run.
type Set struct {
	columns []string
	rows    []Row
}

// NewSet copies columns and rows into a new set. Columns present in rows but
// missing from columns are appended in sorted order.
func NewSet(columns []string, rows []Row) *Set {
	s := &Set{
		columns: append([]string(nil), columns...),
		rows:    make([]Row, len(rows)),
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	var extra []string
	for i, row := range rows {
		clone := make(Row, len(row))
		for k, v := range row {
			clone[k] = v
			if !known[k] {
				known[k] = true
				extra = append(extra, k)
			}
		}
		s.rows[i] = clone
	}
	sort.Strings(extra)
	s.columns = append(s.columns, extra...)
	return s
}

// FromRecords builds a set from loose records, ordering TUID, Epic and
// Test_Type first and the remaining columns alphabetically.
func FromRecords(records []map[string]any) *Set {
	seen := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			seen[k] = true
		}
	}
	var columns []string
	for _, c := range leadingColumns {
		if seen[c] {
			columns = append(columns, c)
		}
	}
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row(rec)
	}
	return NewSet(columns, rows)
}

// Len reports the row count. A nil set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rows)
}

// Columns returns the column order.
func (s *Set) Columns() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.columns...)
}

// HasColumn reports whether column is part of the set.
func (s *Set) HasColumn(column string) bool {
	if s == nil {
		return false
	}
	for _, c := range s.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Row returns a copy of row i.
func (s *Set) Row(i int) Row {
	clone := make(Row, len(s.rows[i]))
	for k, v := range s.rows[i] {
		clone[k] = v
	}
	return clone
}

// Each calls fn for every row in order. The row must not be modified.
func (s *Set) Each(fn func(i int, row Row)) {
	if s == nil {
		return
	}
	for i, row := range s.rows {
		fn(i, row)
	}
}

// Values returns row i laid out in column order; missing cells are nil.
func (s *Set) Values(i int) []any {
	row := s.rows[i]
	out := make([]any, len(s.columns))
	for c, name := range s.columns {
		out[c] = row[name]
	}
	return out
}

func (s *Set) subset(indexes []int) *Set {
	out := &Set{columns: s.Columns(), rows: make([]Row, len(indexes))}
	for i, idx := range indexes {
		out.rows[i] = s.rows[idx]
	}
	return out
}
