// Package tui holds the interactive terminal views: a product picker and a
// read-only review of one generation's results.
//
// Both follow The Elm Architecture used by bubbletea:
// User Input -> Message -> Update -> New Model -> View -> Screen
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kingrea/casegen/internal/result"
)

const (
	barWidth    = 30
	chromeLines = 4
)

// ReviewOption customizes a Review.
type ReviewOption func(*Review)

// WithSampler overrides the sampler used for the row preview.
func WithSampler(s *result.Sampler) ReviewOption {
	return func(r *Review) {
		if s != nil {
			r.sampler = s
		}
	}
}

// WithFooter adds a line under the content, such as the export paths.
func WithFooter(line string) ReviewOption {
	return func(r *Review) {
		r.footer = line
	}
}

// Review shows the summary, distribution and a random sample of a result set.
type Review struct {
	title   string
	footer  string
	set     *result.Set
	summary result.Summary
	sample  *result.Set
	size    int
	sampler *result.Sampler

	keys     reviewKeys
	help     help.Model
	viewport viewport.Model
	ready    bool
	width    int
}

// NewReview builds the review model for set.
func NewReview(title string, set *result.Set, sampleSize int, opts ...ReviewOption) *Review {
	r := &Review{
		title:   title,
		set:     set,
		summary: result.Summarize(set),
		size:    sampleSize,
		sampler: result.NewSampler(nil),
		keys:    newReviewKeys(),
		help:    help.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sample = r.sampler.Sample(set, r.size)
	return r
}

// Sample returns the rows currently previewed.
func (r *Review) Sample() *result.Set {
	return r.sample
}

func (r *Review) Init() tea.Cmd {
	return nil
}

func (r *Review) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.help.Width = msg.Width
		height := max(1, msg.Height-chromeLines)
		if !r.ready {
			r.viewport = viewport.New(msg.Width, height)
			r.ready = true
		} else {
			r.viewport.Width = msg.Width
			r.viewport.Height = height
		}
		r.viewport.SetContent(r.content())
		return r, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, r.keys.Quit):
			return r, tea.Quit
		case key.Matches(msg, r.keys.Resample):
			r.sample = r.sampler.Sample(r.set, r.size)
			if r.ready {
				r.viewport.SetContent(r.content())
			}
			return r, nil
		case key.Matches(msg, r.keys.Help):
			r.help.ShowAll = !r.help.ShowAll
			return r, nil
		}
	}
	if !r.ready {
		return r, nil
	}
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

func (r *Review) View() string {
	if !r.ready {
		return "loading…"
	}
	parts := []string{titleStyle.Render(r.title), r.viewport.View()}
	if r.footer != "" {
		parts = append(parts, mutedStyle.Render(r.footer))
	}
	parts = append(parts, r.help.View(r.keys))
	return strings.Join(parts, "\n")
}

func (r *Review) content() string {
	var b strings.Builder
	s := r.summary
	fmt.Fprintf(&b, "Total %d   %s %d   %s %d\n",
		s.Total,
		passStyle.Render("Positive"), s.Positive,
		failStyle.Render("Negative"), s.Negative,
	)

	if len(s.Distribution) > 0 {
		b.WriteString(sectionStyle.Render("Cases per epic") + "\n")
		b.WriteString(distribution(s.Distribution) + "\n")
	}
	if len(s.Outcomes) > 0 {
		b.WriteString(sectionStyle.Render("Rule outcomes") + "\n")
		for _, oc := range s.Outcomes {
			fmt.Fprintf(&b, "%s  %s  %s  %s\n",
				oc.Column,
				passStyle.Render(fmt.Sprintf("pass %d", oc.Pass)),
				failStyle.Render(fmt.Sprintf("fail %d", oc.Fail)),
				mutedStyle.Render(fmt.Sprintf("other %d", oc.Neutral)),
			)
		}
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Sample (%d of %d)", r.sample.Len(), r.set.Len())) + "\n")
	if r.sample.Len() == 0 {
		b.WriteString(mutedStyle.Render("No test cases generated."))
	} else {
		b.WriteString(sampleTable(r.sample).String())
	}
	return b.String()
}

func distribution(dist []result.CategoryCount) string {
	nameWidth := 0
	for _, c := range dist {
		nameWidth = max(nameWidth, lipgloss.Width(c.Category))
	}
	peak := dist[0].Count
	lines := make([]string, 0, len(dist))
	for _, c := range dist {
		n := 0
		if peak > 0 {
			n = c.Count * barWidth / peak
		}
		if n == 0 && c.Count > 0 {
			n = 1
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %d", nameWidth, c.Category, barStyle.Render(strings.Repeat("█", n)), c.Count))
	}
	return strings.Join(lines, "\n")
}

// sampleTable renders rows with Rule_* cells colored by outcome.
func sampleTable(s *result.Set) *table.Table {
	cols := s.Columns()
	rows := make([][]string, 0, s.Len())
	s.Each(func(_ int, row result.Row) {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = row.Text(col)
		}
		rows = append(rows, cells)
	})
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(cols...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			if !result.IsRuleColumn(cols[col]) {
				return cellStyle
			}
			switch result.Classify(rows[row][col]) {
			case result.OutcomePass:
				return cellStyle.Foreground(green)
			case result.OutcomeFail:
				return cellStyle.Foreground(red)
			default:
				return cellStyle
			}
		})
}
