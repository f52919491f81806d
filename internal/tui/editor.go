// Package tui implements the terminal editor for a document's typography.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	htmlfont "github.com/alnah/go-htmlfont"
)

// Field is the control receiving adjustment keys.
type Field int

const (
	FieldFont Field = iota
	FieldSize
	FieldWidth
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldSize:
		return "Font size"
	case FieldWidth:
		return "Table width"
	default:
		return "Font"
	}
}

const (
	defaultListHeight = 12
	fontLoadTimeout   = 30 * time.Second
)

// fontsLoadedMsg reports the outcome of a system font load.
type fontsLoadedMsg struct{ err error }

// Model is the bubbletea model editing a Session. Keys apply changes to the
// session immediately; Saved reports whether the user confirmed the result.
type Model struct {
	session *htmlfont.Session
	fonts   htmlfont.FontSource

	Focus  Field
	Cursor int
	Offset int
	Height int

	saved  bool
	status string
	err    error
}

// New creates an editor for session. fonts may be nil, which disables
// loading system fonts.
func New(session *htmlfont.Session, fonts htmlfont.FontSource) Model {
	m := Model{session: session, fonts: fonts, Height: defaultListHeight}
	m.syncCursor()
	return m
}

// Saved reports whether the user asked to save before quitting.
func (m Model) Saved() bool { return m.saved }

// Err returns the last error shown in the status line.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 3)
		m.scroll()
	case fontsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Loaded %d system fonts", m.session.Catalog().Len())
		m.Offset = 0
		m.syncCursor()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "enter", "s", "ctrl+s":
		m.saved = true
		return m, tea.Quit
	case "tab":
		m.Focus = (m.Focus + 1) % fieldCount
	case "shift+tab":
		m.Focus = (m.Focus + fieldCount - 1) % fieldCount
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "left", "h", "-":
		m.adjust(-1)
	case "right", "l", "+", "=":
		m.adjust(1)
	case "L":
		if m.session.LoadingFonts() {
			return m, nil
		}
		m.status = "Loading system fonts..."
		m.err = nil
		return m, loadFonts(m.session, m.fonts)
	}
	return m, nil
}

// step moves the font cursor when the font list has focus, and otherwise
// adjusts the focused value.
func (m *Model) step(delta int) {
	if m.Focus != FieldFont {
		m.adjust(-delta)
		return
	}
	catalog := m.session.Catalog()
	next := m.Cursor + delta
	if next < 0 || next >= len(catalog) {
		return
	}
	m.Cursor = next
	if err := m.session.SelectFont(catalog[next].Label); err != nil {
		m.err = err
	}
	m.scroll()
}

// adjust changes the focused numeric value by one step.
func (m *Model) adjust(delta int) {
	p := m.session.Params()
	switch m.Focus {
	case FieldSize:
		m.session.SetFontSize(p.FontSizePx + delta*htmlfont.FontSizeStep)
	case FieldWidth:
		m.session.SetTableWidth(p.TableWidthPx + delta*htmlfont.TableWidthStep)
	default:
		m.step(delta)
	}
}

// syncCursor points the cursor at the selected font.
func (m *Model) syncCursor() {
	label := m.session.Params().Font.Label
	m.Cursor = 0
	for i, f := range m.session.Catalog() {
		if f.Label == label {
			m.Cursor = i
			break
		}
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func loadFonts(session *htmlfont.Session, src htmlfont.FontSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fontLoadTimeout)
		defer cancel()
		return fontsLoadedMsg{err: session.LoadSystemFonts(ctx, src)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	title := "Typography"
	if doc, ok := m.session.Document(); ok {
		title += ": " + doc.Name
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("tab field  ↑/↓ font  ←/→ adjust  L system fonts  s save  q quit"))
	b.WriteString("\n\n")

	m.viewFonts(&b)
	b.WriteString("\n")
	m.viewValues(&b)

	switch {
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(styleError.Render(m.err.Error()))
		b.WriteString("\n")
	case m.session.LoadingFonts():
		b.WriteString("\n")
		b.WriteString(styleWarning.Render("Loading system fonts..."))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString("\n")
		b.WriteString(styleDim.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewFonts(b *strings.Builder) {
	catalog := m.session.Catalog()
	end := min(m.Offset+m.Height, len(catalog))

	header := FieldFont.String()
	if m.Focus == FieldFont {
		header = styleActive.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n")

	for i := m.Offset; i < end; i++ {
		f := catalog[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-24s %s", cursor, f.Label, styleDim.Render(f.Category))
		if i == m.Cursor {
			b.WriteString(styleSelected.Render(line))
		} else {
			b.WriteString(styleNormal.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(styleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(catalog))))
	b.WriteString("\n")
}

func (m Model) viewValues(b *strings.Builder) {
	p := m.session.Params()
	rows := []struct {
		field Field
		value string
	}{
		{FieldSize, fmt.Sprintf("%dpx  (%d-%d)", p.FontSizePx, htmlfont.MinFontSize, htmlfont.MaxFontSize)},
		{FieldWidth, fmt.Sprintf("%dpx  (%d-%d)", p.TableWidthPx, htmlfont.MinTableWidth, m.session.MaxTableWidth())},
	}
	for _, r := range rows {
		label := fmt.Sprintf("%-12s", r.field.String())
		if m.Focus == r.field {
			label = styleActive.Render(label)
		}
		b.WriteString(label + " " + styleNormal.Render(r.value) + "\n")
	}
}
