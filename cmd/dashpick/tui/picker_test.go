package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/ruminaider/dashpick/internal/selector"
	"github.com/ruminaider/dashpick/internal/timerange"
	"github.com/ruminaider/dashpick/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() topology.Snapshot {
	return topology.Snapshot{
		PD:   []topology.Instance{{Address: "pd-1:2379"}},
		TiDB: []topology.Instance{{Address: "tidb-1:4000", Status: topology.StatusDown}},
		TiKV: []topology.Instance{{Address: "tikv-1:20160"}, {Address: "tikv-2:20160"}},
	}
}

func testPicker(t *testing.T, load tea.Cmd) (Picker, *[][]string) {
	t.Helper()
	var pushed [][]string
	sel := selector.New(selector.Options{
		OnChange: func(v []string) { pushed = append(pushed, v) },
	})
	sel.Mount(nil)
	require.NoError(t, sel.Apply(testSnapshot(), false))
	return NewPicker(sel, "Instances", timerange.Default, load), &pushed
}

func send(p Picker, msgs ...tea.Msg) Picker {
	for _, msg := range msgs {
		m, _ := p.Update(msg)
		p = m.(Picker)
	}
	return p
}

func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	keySpace     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	keyDown      = tea.KeyMsg{Type: tea.KeyDown}
	keyUp        = tea.KeyMsg{Type: tea.KeyUp}
	keyCtrlA     = tea.KeyMsg{Type: tea.KeyCtrlA}
	keyCtrlN     = tea.KeyMsg{Type: tea.KeyCtrlN}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestPicker_GroupsByComponent(t *testing.T) {
	p, _ := testPicker(t, nil)

	require.Len(t, p.rows, 7)
	assert.Equal(t, "PD (1)", p.rows[0].header)
	assert.Equal(t, "pd-1:2379", p.rows[1].item.Key)
	assert.Equal(t, "TiDB (1)", p.rows[2].header)
	assert.Equal(t, "TiKV (2)", p.rows[4].header)

	it, ok := p.current()
	require.True(t, ok)
	assert.Equal(t, "pd-1:2379", it.Key, "cursor skips the leading header")
}

func TestPicker_CursorSkipsHeaders(t *testing.T) {
	p, _ := testPicker(t, nil)

	p = send(p, keyDown)
	it, _ := p.current()
	assert.Equal(t, "tidb-1:4000", it.Key)

	p = send(p, keyDown, keyDown, keyDown)
	it, _ = p.current()
	assert.Equal(t, "tikv-2:20160", it.Key, "cursor stops at the last row")

	p = send(p, keyUp, keyUp)
	it, _ = p.current()
	assert.Equal(t, "tidb-1:4000", it.Key)
}

func TestPicker_SpaceToggles(t *testing.T) {
	p, pushed := testPicker(t, nil)

	p = send(p, keySpace)
	assert.True(t, p.sel.IsSelected("pd-1:2379"))
	require.Len(t, *pushed, 1)
	assert.Equal(t, []string{"pd-1:2379"}, (*pushed)[0])
	assert.Empty(t, p.sel.Keyword(), "space is not typed into the filter")

	p = send(p, keySpace)
	assert.False(t, p.sel.IsSelected("pd-1:2379"))
	assert.Len(t, *pushed, 2)
}

func TestPicker_FilterThenSelectAll(t *testing.T) {
	p, _ := testPicker(t, nil)

	p = send(p, typeText("tikv")...)
	assert.Equal(t, "tikv", p.sel.Keyword())
	require.Len(t, p.rows, 3)

	p = send(p, keyCtrlA)
	assert.Equal(t, []string{"tikv-1:20160", "tikv-2:20160"}, p.sel.Selected())

	p = send(p, keyBackspace, keyBackspace, keyBackspace, keyBackspace)
	assert.Empty(t, p.sel.Keyword())
	assert.Len(t, p.rows, 7)
	assert.Equal(t, []string{"tikv-1:20160", "tikv-2:20160"}, p.sel.Selected(), "clearing the filter keeps the selection")
}

func TestPicker_SelectNoneVisible(t *testing.T) {
	p, _ := testPicker(t, nil)
	p = send(p, keyCtrlA)
	require.Len(t, p.sel.Selected(), 4)

	p = send(p, typeText("tikv-1")...)
	p = send(p, keyCtrlN)
	assert.Equal(t, []string{"pd-1:2379", "tidb-1:4000", "tikv-2:20160"}, p.sel.Selected())
}

func TestPicker_StatusFilter(t *testing.T) {
	p, _ := testPicker(t, nil)
	p = send(p, typeText("down")...)

	require.Len(t, p.rows, 2)
	assert.Equal(t, "tidb-1:4000", p.rows[1].item.Key)
	assert.Contains(t, p.renderRow(1), "down")
}

func TestPicker_NoMatches(t *testing.T) {
	p, _ := testPicker(t, nil)
	p = send(p, typeText("zzz")...)

	assert.Empty(t, p.rows)
	assert.Contains(t, p.View(), "no matching instances")
	_, ok := p.current()
	assert.False(t, ok)

	p = send(p, keySpace)
	assert.Empty(t, p.sel.Selected())
}

func TestPicker_EnterConfirms(t *testing.T) {
	p, _ := testPicker(t, nil)
	p = send(p, keySpace)

	m, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = m.(Picker)
	assert.True(t, p.Done)
	assert.False(t, p.Cancelled)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"pd-1:2379"}, p.Value())
}

func TestPicker_EscCancels(t *testing.T) {
	p, _ := testPicker(t, nil)

	m, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	p = m.(Picker)
	assert.True(t, p.Cancelled)
	assert.False(t, p.Done)
	assert.NotNil(t, cmd)
}

func TestPicker_LoadingThenLoaded(t *testing.T) {
	sel := selector.New(selector.Options{DefaultSelectAll: true})
	sel.Mount(nil)
	p := NewPicker(sel, "Instances", timerange.Default, nil)

	assert.True(t, sel.Disabled())
	assert.Contains(t, p.View(), "Loading instances")

	p = send(p, keyCtrlA)
	assert.Empty(t, sel.Selected(), "no selection while loading")

	p = send(p, TopologyMsg{Snapshot: testSnapshot()})
	assert.False(t, sel.Disabled())
	assert.Len(t, sel.Selected(), 4, "default select-all on first load")
	assert.Contains(t, p.View(), "4/4 selected")
	assert.Contains(t, p.View(), "All instances")
}

func TestPicker_Reload(t *testing.T) {
	l := topology.NewLoader(map[string]topology.Source{
		"static": topology.StaticSource{Snapshot: testSnapshot()},
	})
	load := LoadTopology(context.Background(), l)
	p, _ := testPicker(t, load)
	p = send(p, keySpace)

	m, cmd := p.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	p = m.(Picker)
	require.NotNil(t, cmd)
	assert.True(t, p.sel.Disabled())

	p = send(p, cmd())
	assert.False(t, p.sel.Disabled())
	assert.Equal(t, []string{"pd-1:2379"}, p.sel.Selected(), "selection survives a reload")
}

func TestPicker_RefreshKeepsCursorForSameKeys(t *testing.T) {
	p, _ := testPicker(t, nil)
	p = send(p, keyDown, keyDown)
	it, _ := p.current()
	require.Equal(t, "tikv-1:20160", it.Key)

	same := testSnapshot()
	same.TiKV[0].Status = topology.StatusDown
	p = send(p, TopologyMsg{Snapshot: same})
	it, _ = p.current()
	assert.Equal(t, "tikv-1:20160", it.Key)

	changed := testSnapshot()
	changed.TiKV = append(changed.TiKV, topology.Instance{Address: "tikv-3:20160"})
	p = send(p, TopologyMsg{Snapshot: changed})
	it, _ = p.current()
	assert.Equal(t, "pd-1:2379", it.Key, "a different instance set resets the cursor")
}

func TestPicker_PlaceholderMentionsSpace(t *testing.T) {
	p, _ := testPicker(t, nil)
	assert.Contains(t, p.input.Placeholder, "space toggles")
}

func TestPicker_ReloadWithoutLoader(t *testing.T) {
	p, _ := testPicker(t, nil)
	m, cmd := p.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	p = m.(Picker)
	assert.Nil(t, cmd)
	assert.False(t, p.sel.Disabled())
}

func TestPicker_DuplicateKeyShowsError(t *testing.T) {
	p, _ := testPicker(t, nil)
	bad := testSnapshot()
	bad.TiKV = append(bad.TiKV, topology.Instance{Address: "pd-1:2379"})

	p = send(p, TopologyMsg{Snapshot: bad})
	assert.Contains(t, p.View(), "duplicate")
	assert.Len(t, p.rows, 7, "last good catalog is still shown")
}

func TestPicker_Truncates(t *testing.T) {
	p, _ := testPicker(t, nil)
	p = send(p, tea.WindowSizeMsg{Width: 20, Height: 30})

	for i := range p.rows {
		assert.LessOrEqual(t, ansi.StringWidth(p.renderRow(i)), 16)
	}
}

func TestPicker_Scrolls(t *testing.T) {
	p, _ := testPicker(t, nil)
	p = send(p, tea.WindowSizeMsg{Width: 80, Height: 8})
	require.Equal(t, 4, p.height)

	p = send(p, keyDown, keyDown, keyDown)
	it, _ := p.current()
	assert.Equal(t, "tikv-2:20160", it.Key)
	assert.Greater(t, p.offset, 0)
	assert.Contains(t, p.listView(), "↑ more")
}

func TestPicker_StatusBarShowsTimeRange(t *testing.T) {
	p, _ := testPicker(t, nil)
	p = send(p, keySpace)

	view := p.View()
	assert.Contains(t, view, "1/4 selected")
	assert.Contains(t, view, "1 PD")
	assert.Contains(t, view, timerange.Label(timerange.Default))
	assert.True(t, strings.HasPrefix(view, TitleStyle.Render("Instances")))
}
