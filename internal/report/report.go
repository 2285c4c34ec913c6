// Package report renders catalogs, epic maps and generation results as
// terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/product"
	"github.com/kingrea/casegen/internal/result"
)

// barWidth is the length of the widest distribution bar.
const barWidth = 30

// Printer writes tables to out.
type Printer struct {
	out    io.Writer
	colors bool
}

// NewPrinter returns a printer. Colors should be off when out is not a
// terminal.
func NewPrinter(out io.Writer, colors bool) *Printer {
	return &Printer{out: out, colors: colors}
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (p *Printer) paint(c text.Colors, s string) string {
	if !p.colors {
		return s
	}
	return c.Sprint(s)
}

func (p *Printer) header(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = p.paint(text.Colors{text.FgHiCyan}, c)
	}
	return row
}

func (p *Printer) empty(message string) {
	fmt.Fprintln(p.out, p.paint(text.Colors{text.FgYellow}, message))
}

// Catalog lists discovered modules by display name.
func (p *Printer) Catalog(c product.Catalog) {
	if len(c.Entries) == 0 {
		p.empty("No product modules found")
		return
	}
	t := p.newTable()
	t.AppendHeader(p.header("PRODUCT", "ID", "STATUS"))
	for _, e := range c.Entries {
		status := p.paint(text.Colors{text.FgGreen}, "ok")
		if e.Degraded {
			status = p.paint(text.Colors{text.FgYellow}, "degraded")
		}
		t.AppendRow(table.Row{e.DisplayName, e.ID, status})
	}
	t.Render()
	for _, err := range c.Problems {
		fmt.Fprintln(p.out, p.paint(text.Colors{text.FgYellow}, "warning: "+err.Error()))
	}
}

// Epics lists one family's epic map with the kind the normalizer applies.
func (p *Printer) Epics(family epic.Family, m epic.Map) {
	if len(m) == 0 {
		p.empty(fmt.Sprintf("No %s epics", family))
		return
	}
	t := p.newTable()
	t.SetTitle(strings.ToUpper(string(family)) + " EPICS")
	t.AppendHeader(p.header("KEY", "KIND", "DESCRIPTION"))
	for _, d := range m {
		t.AppendRow(table.Row{d.Key, epic.KindOf(d.Key), d.Description})
	}
	t.Render()
}

// Summary prints totals, the per-epic distribution and rule outcomes.
func (p *Printer) Summary(s result.Summary) {
	t := p.newTable()
	t.AppendHeader(p.header("TOTAL", "POSITIVE", "NEGATIVE"))
	t.AppendRow(table.Row{s.Total, s.Positive, s.Negative})
	t.Render()

	if len(s.Distribution) > 0 {
		p.distribution(s.Distribution)
	}
	if len(s.Outcomes) > 0 {
		o := p.newTable()
		o.AppendHeader(p.header("RULE", "PASS", "FAIL", "OTHER"))
		for _, oc := range s.Outcomes {
			o.AppendRow(table.Row{
				oc.Column,
				p.paint(text.Colors{text.FgGreen}, fmt.Sprint(oc.Pass)),
				p.paint(text.Colors{text.FgRed}, fmt.Sprint(oc.Fail)),
				oc.Neutral,
			})
		}
		o.Render()
	}
}

func (p *Printer) distribution(dist []result.CategoryCount) {
	peak := dist[0].Count
	t := p.newTable()
	t.AppendHeader(p.header("EPIC", "CASES", ""))
	for _, c := range dist {
		n := 0
		if peak > 0 {
			n = c.Count * barWidth / peak
		}
		if n == 0 && c.Count > 0 {
			n = 1
		}
		t.AppendRow(table.Row{c.Category, c.Count, p.paint(text.Colors{text.FgBlue}, strings.Repeat("█", n))})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

// Rows prints every row of set with Rule_* cells colored by outcome.
func (p *Printer) Rows(set *result.Set) {
	if set.Len() == 0 {
		p.empty("No test cases")
		return
	}
	cols := set.Columns()
	t := p.newTable()
	t.AppendHeader(p.header(cols...))
	set.Each(func(_ int, row result.Row) {
		r := make(table.Row, len(cols))
		for i, col := range cols {
			r[i] = p.cell(col, row.Text(col))
		}
		t.AppendRow(r)
	})
	t.Render()
}

func (p *Printer) cell(col, value string) string {
	if !result.IsRuleColumn(col) {
		return value
	}
	switch result.Classify(value) {
	case result.OutcomePass:
		return p.paint(text.Colors{text.FgGreen}, value)
	case result.OutcomeFail:
		return p.paint(text.Colors{text.FgRed}, value)
	default:
		return value
	}
}
