package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/ruminaider/dashpick/internal/catalog"
	"github.com/ruminaider/dashpick/internal/selector"
	"github.com/ruminaider/dashpick/internal/timerange"
	"github.com/ruminaider/dashpick/internal/topology"
)

// row is either a component header or an instance.
type row struct {
	header string
	item   catalog.Item
}

func (r row) isHeader() bool { return r.header != "" }

// Picker is the interactive instance selector. Rows are the selector's
// visible items grouped under component headers; the filter input narrows
// them without touching the selection.
type Picker struct {
	sel       *selector.Selector
	input     textinput.Model
	rows      []row
	cursor    int // index into rows
	offset    int // scroll offset
	height    int
	width     int
	title     string
	timeRange timerange.TimeRange
	load      tea.Cmd
	loadErr   error
	shown     *catalog.Catalog // catalog the cursor position refers to
	status    StatusBar

	// Done is set when the user confirms with Enter.
	Done bool
	// Cancelled is set when the user quits with Esc or Ctrl+C.
	Cancelled bool
}

// NewPicker creates a picker over a mounted selector. load, when non-nil,
// runs on Init and again on Ctrl+R.
func NewPicker(sel *selector.Selector, title string, tr timerange.TimeRange, load tea.Cmd) Picker {
	ti := textinput.New()
	// Space is bound to toggle, so keywords cannot contain spaces.
	ti.Placeholder = "filter by address or status (space toggles)"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	p := Picker{
		sel:       sel,
		input:     ti,
		height:    20,
		title:     title,
		timeRange: tr,
		load:      load,
		shown:     sel.Catalog(),
	}
	p.rebuild()
	return p
}

// Init starts the cursor blink and the first topology load.
func (p Picker) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, p.load)
}

// Value returns the controlled value held by the selector.
func (p Picker) Value() []string {
	return p.sel.Value()
}

// Update handles window, topology and key messages.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height - 4 // title, input, blank line, status bar
		p.status.SetWidth(msg.Width)
		p.clampScroll()
		return p, nil

	case TopologyMsg:
		p.loadErr = msg.Err
		if err := p.sel.Apply(msg.Snapshot, msg.Loading); err != nil {
			p.loadErr = err
		}
		if !msg.Loading {
			// Keep the cursor across a refresh that reports the same instances.
			if c := p.sel.Catalog(); !c.SameKeys(p.shown) {
				p.cursor, p.offset = 0, 0
			}
			p.shown = p.sel.Catalog()
		}
		p.rebuild()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			p.Cancelled = true
			return p, tea.Quit
		case "enter":
			p.Done = true
			return p, tea.Quit
		case "up":
			p.moveCursor(-1)
			return p, nil
		case "down":
			p.moveCursor(+1)
			return p, nil
		case " ":
			if it, ok := p.current(); ok {
				p.sel.Toggle(it.Key)
				p.refreshStatus()
			}
			return p, nil
		case "ctrl+a":
			p.sel.SelectAllVisible()
			p.refreshStatus()
			return p, nil
		case "ctrl+n":
			p.sel.SelectNoneVisible()
			p.refreshStatus()
			return p, nil
		case "ctrl+r":
			if p.load == nil {
				return p, nil
			}
			_ = p.sel.Apply(topology.Snapshot{}, true)
			p.rebuild()
			return p, p.load
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if kw := p.input.Value(); kw != p.sel.Keyword() {
		p.sel.SetKeyword(kw)
		p.cursor, p.offset = 0, 0
		p.rebuild()
	}
	return p, cmd
}

// View renders the title, the filter input, the list and the status bar.
func (p Picker) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(p.title) + "\n")
	b.WriteString(p.input.View() + "\n\n")
	b.WriteString(p.listView() + "\n")
	b.WriteString(p.status.View())
	return b.String()
}

func (p Picker) listView() string {
	if p.sel.Disabled() {
		return ContentPaneStyle.Render(DimStyle.Render("Loading instances..."))
	}

	var b strings.Builder
	if p.loadErr != nil {
		b.WriteString(ErrorStyle.Render(p.truncate("error: "+p.loadErr.Error())) + "\n")
	}
	if len(p.rows) == 0 {
		if p.sel.Keyword() != "" {
			b.WriteString(DimStyle.Render("(no matching instances)"))
		} else {
			b.WriteString(DimStyle.Render("(no instances)"))
		}
		return ContentPaneStyle.Render(b.String())
	}

	visibleRows := p.height
	hasAbove := p.offset > 0
	hasBelow := p.offset+p.height < len(p.rows)
	if hasAbove {
		visibleRows--
	}
	if hasBelow {
		visibleRows--
	}
	if visibleRows < 1 {
		visibleRows = 1
	}

	if hasAbove {
		b.WriteString(DimStyle.Render("  ↑ more") + "\n")
	}
	end := p.offset + visibleRows
	if end > len(p.rows) {
		end = len(p.rows)
	}
	for i := p.offset; i < end; i++ {
		b.WriteString(p.renderRow(i) + "\n")
	}
	if end < len(p.rows) {
		b.WriteString(DimStyle.Render("  ↓ more") + "\n")
	}
	return ContentPaneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (p Picker) renderRow(i int) string {
	r := p.rows[i]
	if r.isHeader() {
		return HeaderStyle.Render(p.truncate(fmt.Sprintf("── %s ──", r.header)))
	}

	cursor := "  "
	display := r.item.Key
	if i == p.cursor {
		cursor = "> "
		display = CursorStyle.Render(display)
	}

	checkbox := UnselectedStyle.Render("[ ]")
	if p.sel.IsSelected(r.item.Key) {
		checkbox = SelectedStyle.Render("[x]")
	}

	tag := ""
	if st := r.item.Attr(topology.AttrStatus); st != "" && st != string(topology.StatusUp) {
		tag = "  " + DownStyle.Render(st)
	}
	return p.truncate(cursor + checkbox + " " + display + tag)
}

func (p Picker) truncate(s string) string {
	if p.width <= 4 {
		return s
	}
	return ansi.Truncate(s, p.width-4, "…")
}

// rebuild regroups the visible items under component headers and resets
// the cursor if it no longer lands on an instance.
func (p *Picker) rebuild() {
	visible := p.sel.Visible()
	counts := make(map[string]int)
	for _, it := range visible {
		counts[it.Attr(topology.AttrComponent)]++
	}

	rows := make([]row, 0, len(visible)+len(counts))
	last := ""
	for _, it := range visible {
		comp := it.Attr(topology.AttrComponent)
		if comp != last {
			name := topology.Component(comp).DisplayName()
			rows = append(rows, row{header: fmt.Sprintf("%s (%d)", name, counts[comp])})
			last = comp
		}
		rows = append(rows, row{item: it})
	}
	p.rows = rows

	if p.cursor >= len(p.rows) || p.isSkippable(p.cursor) {
		p.cursor = 0
		for i := range p.rows {
			if !p.isSkippable(i) {
				p.cursor = i
				break
			}
		}
	}
	p.clampScroll()
	p.refreshStatus()
}

func (p *Picker) refreshStatus() {
	p.status.Update(len(p.sel.Selected()), p.sel.Catalog().Len(), p.sel.Summary(), timerange.Label(p.timeRange))
}

// current returns the instance under the cursor.
func (p Picker) current() (catalog.Item, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) || p.rows[p.cursor].isHeader() {
		return catalog.Item{}, false
	}
	return p.rows[p.cursor].item, true
}

func (p *Picker) isSkippable(i int) bool {
	if i < 0 || i >= len(p.rows) {
		return false
	}
	return p.rows[i].isHeader()
}

// moveCursor advances the cursor by dir, skipping headers.
func (p *Picker) moveCursor(dir int) {
	next := p.cursor + dir
	for next >= 0 && next < len(p.rows) {
		if !p.isSkippable(next) {
			p.cursor = next
			p.clampScroll()
			return
		}
		next += dir
	}
}

// clampScroll keeps the cursor inside the visible window.
func (p *Picker) clampScroll() {
	if p.height <= 0 {
		return
	}
	effective := p.height
	if len(p.rows) > p.height {
		effective -= 2 // scroll indicators
	}
	if effective < 1 {
		effective = 1
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+effective {
		p.offset = p.cursor - effective + 1
	}
	maxOffset := len(p.rows) - effective
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.offset > maxOffset {
		p.offset = maxOffset
	}
}
