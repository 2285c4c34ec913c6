package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/casegen/internal/product"
)

type productItem struct {
	entry product.Entry
}

func (i productItem) Title() string { return i.entry.DisplayName }

func (i productItem) Description() string {
	if i.entry.Degraded {
		return i.entry.ID + " (could not describe itself)"
	}
	return i.entry.ID
}

func (i productItem) FilterValue() string { return i.entry.DisplayName }

// Picker lets the operator choose one product from the catalog.
type Picker struct {
	list   list.Model
	choice string
}

// NewPicker lists the catalog entries in display-name order.
func NewPicker(catalog product.Catalog) *Picker {
	items := make([]list.Item, 0, len(catalog.Entries))
	for _, e := range catalog.Entries {
		items = append(items, productItem{entry: e})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select a product"
	l.Styles.Title = titleStyle
	return &Picker{list: l}
}

// Choice returns the selected module id, or "" when the picker was closed
// without a selection.
func (p *Picker) Choice() string {
	return p.choice
}

func (p *Picker) Init() tea.Cmd {
	return nil
}

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetSize(msg.Width, msg.Height)
		return p, nil
	case tea.KeyMsg:
		if p.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := p.list.SelectedItem().(productItem); ok {
				p.choice = item.entry.ID
			}
			return p, tea.Quit
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		}
	}
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *Picker) View() string {
	return p.list.View()
}
