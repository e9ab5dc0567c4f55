// Package view draws editors onto a tcell screen.
//
// A View reads an editor's state (buffer, selection, markers, gutter
// decorations, placeholder) and paints it into a rectangle. It never changes
// the editor: scrolling to keep the cursor visible is computed per draw and
// not written back to the session, so drawing raises no engine events.
package view

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/split"
)

// Theme holds the styles a View paints with.
type Theme struct {
	Text        tcell.Style
	LineNumber  tcell.Style
	ActiveLine  tcell.Style
	Marker      tcell.Style
	Selection   tcell.Style
	Placeholder tcell.Style
	PrintMargin tcell.Style
	Divider     tcell.Style
	Status      tcell.Style

	Error   tcell.Style
	Warning tcell.Style
	Info    tcell.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Text:        base,
		LineNumber:  base.Foreground(tcell.ColorGray),
		ActiveLine:  base.Background(tcell.ColorDarkSlateGray),
		Marker:      base.Background(tcell.ColorOlive),
		Selection:   base.Reverse(true),
		Placeholder: base.Foreground(tcell.ColorGray).Italic(true),
		PrintMargin: base.Foreground(tcell.ColorDarkGray),
		Divider:     base.Foreground(tcell.ColorGray),
		Status:      base.Reverse(true),
		Error:       base.Foreground(tcell.ColorRed).Bold(true),
		Warning:     base.Foreground(tcell.ColorYellow),
		Info:        base.Foreground(tcell.ColorBlue),
	}
}

// Option configures a View.
type Option func(*View)

// WithTheme sets the theme.
func WithTheme(t Theme) Option {
	return func(v *View) {
		v.theme = t
	}
}

// View paints editors onto a screen.
type View struct {
	screen tcell.Screen
	theme  Theme
}

// New creates a view over screen.
func New(screen tcell.Screen, opts ...Option) *View {
	v := &View{screen: screen, theme: DefaultTheme()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Screen returns the screen the view draws on.
func (v *View) Screen() tcell.Screen {
	return v.screen
}

// DrawSplit draws every pane of s inside a width x height area, with a
// one-cell divider between panes. The cursor is shown in pane focus.
func (v *View) DrawSplit(s *split.Split, width, height, focus int) {
	rects := s.Layout(width, height)
	vertical := s.Orientation() == split.Beside
	s.ForEach(func(i int, ed engine.Editor) {
		r := rects[i]
		if i > 0 {
			if vertical {
				v.vline(r.X, r.Y, r.Height)
				r.X++
				r.Width--
			} else {
				v.hline(r.X, r.Y, r.Width)
				r.Y++
				r.Height--
			}
		}
		v.DrawEditor(ed, r, i == focus)
	})
}

// DrawEditor draws ed into r. When focused, the terminal cursor is placed at
// the editor's cursor.
func (v *View) DrawEditor(ed engine.Editor, r split.Rect, focused bool) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	v.fill(r, v.theme.Text)

	sess := ed.Session()
	lines := sess.LineCount()
	gutter := 0
	if ed.Renderer().ShowGutter() {
		gutter = gutterWidth(lines)
	}
	textX, textW := r.X+gutter, r.Width-gutter
	if textW <= 0 {
		return
	}

	cursor := ed.Selection().Cursor()
	top := scrollTop(sess.ScrollTop(), cursor.Row, r.Height)
	tab := tabSize(ed)

	signs := signsByRow(ed.Renderer().GutterDecorations())
	back := sess.Markers(false)
	front := sess.Markers(true)
	sel := ed.Selection().Range().Normalize()

	margin := -1
	if ed.ShowPrintMargin() {
		margin = printMargin(ed)
	}

	for y := 0; y < r.Height; y++ {
		row := top + y
		if row >= lines {
			break
		}
		sy := r.Y + y

		lineStyle := v.theme.Text
		if hasActiveLine(back, row) || hasActiveLine(front, row) {
			lineStyle = v.theme.ActiveLine
			v.fill(split.Rect{X: textX, Y: sy, Width: textW, Height: 1}, lineStyle)
		}
		if gutter > 0 {
			v.drawGutter(r.X, sy, gutter, row, signs[row])
		}
		if margin >= 0 && margin < textW {
			v.screen.SetContent(textX+margin, sy, '│', nil, v.theme.PrintMargin)
		}

		line := sess.Line(row)
		col, x := 0, 0
		state := -1
		rest := line
		for rest != "" && x < textW {
			var cluster string
			var w int
			cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)

			style := lineStyle
			if markedAt(back, row, col) || markedAt(front, row, col) {
				style = v.theme.Marker
			}
			if !sel.IsEmpty() && inRange(sel, row, col) {
				style = v.theme.Selection
			}

			if cluster == "\t" {
				n := tab - x%tab
				for k := 0; k < n && x < textW; k++ {
					v.screen.SetContent(textX+x, sy, ' ', nil, style)
					x++
				}
			} else {
				runes := []rune(cluster)
				if w == 0 {
					w = 1
				}
				if x+w <= textW {
					v.screen.SetContent(textX+x, sy, runes[0], runes[1:], style)
				}
				x += w
			}
			col += len(cluster)
		}
	}

	if text, shown := ed.Renderer().Placeholder(); shown && ed.Value() == "" {
		v.text(textX, r.Y, textW, text, v.theme.Placeholder)
	}

	if focused {
		cy := cursor.Row - top
		cx := displayColumn(sess.Line(cursor.Row), cursor.Column, tab)
		if cy >= 0 && cy < r.Height && cx < textW {
			v.screen.ShowCursor(textX+cx, r.Y+cy)
		}
	}
}

// DrawStatus writes text on row y across width cells.
func (v *View) DrawStatus(y, width int, text string) {
	v.fill(split.Rect{X: 0, Y: y, Width: width, Height: 1}, v.theme.Status)
	v.text(0, y, width, text, v.theme.Status)
}

func (v *View) drawGutter(x, y, width, row int, sign string) {
	num := strconv.Itoa(row + 1)
	// Layout: sign, right-aligned number, one space.
	style := v.theme.LineNumber
	switch sign {
	case "error":
		style = v.theme.Error
	case "warning":
		style = v.theme.Warning
	case "info":
		style = v.theme.Info
	}
	if sign != "" {
		v.screen.SetContent(x, y, rune(strings.ToUpper(sign)[0]), nil, style)
	}
	start := x + width - 1 - len(num)
	v.text(start, y, len(num), num, v.theme.LineNumber)
}

func (v *View) text(x, y, width int, s string, style tcell.Style) {
	col := 0
	state := -1
	for s != "" && col < width {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if w == 0 {
			w = 1
		}
		if col+w > width {
			break
		}
		runes := []rune(cluster)
		v.screen.SetContent(x+col, y, runes[0], runes[1:], style)
		col += w
	}
}

func (v *View) fill(r split.Rect, style tcell.Style) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			v.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (v *View) vline(x, y, height int) {
	for i := 0; i < height; i++ {
		v.screen.SetContent(x, y+i, '│', nil, v.theme.Divider)
	}
}

func (v *View) hline(x, y, width int) {
	for i := 0; i < width; i++ {
		v.screen.SetContent(x+i, y, '─', nil, v.theme.Divider)
	}
}

// gutterWidth fits a sign column, the widest line number and a space.
func gutterWidth(lines int) int {
	digits := len(strconv.Itoa(lines))
	if digits < 2 {
		digits = 2
	}
	return 1 + digits + 1
}

// scrollTop keeps row inside a window of height rows starting near top.
func scrollTop(top, row, height int) int {
	if top < 0 {
		top = 0
	}
	if row < top {
		return row
	}
	if row >= top+height {
		return row - height + 1
	}
	return top
}

func tabSize(ed engine.Editor) int {
	if v, ok := ed.Option("tabSize"); ok {
		if n, ok := v.(int); ok && n > 0 {
			return n
		}
	}
	return 4
}

func printMargin(ed engine.Editor) int {
	if v, ok := ed.Option("printMargin"); ok {
		if n, ok := v.(int); ok && n > 0 {
			return n
		}
	}
	return -1
}

// displayColumn converts a byte column on line into a cell column.
func displayColumn(line string, col, tab int) int {
	if col > len(line) {
		col = len(line)
	}
	x := 0
	state := -1
	rest := line[:col]
	for rest != "" {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			x += tab - x%tab
			continue
		}
		if w == 0 {
			w = 1
		}
		x += w
	}
	return x
}

// signsByRow picks the most severe annotation type per row.
func signsByRow(decos []engine.GutterDecoration) map[int]string {
	out := make(map[int]string, len(decos))
	for _, d := range decos {
		out[d.Row] = strings.TrimPrefix(d.ClassName, "ace_")
	}
	return out
}

func hasActiveLine(markers map[int]engine.Marker, row int) bool {
	for _, m := range markers {
		if m.Class == engine.ClassActiveLine && m.Range.ContainsRow(row) {
			return true
		}
	}
	return false
}

// markedAt reports whether a declared text marker covers the byte at
// row, col. Engine-owned highlights are drawn separately.
func markedAt(markers map[int]engine.Marker, row, col int) bool {
	for _, m := range markers {
		if m.Class == engine.ClassActiveLine || m.Class == engine.ClassSelectedWord {
			continue
		}
		r := m.Range.Normalize()
		if m.Type == "fullLine" || m.Type == "screenLine" {
			if r.ContainsRow(row) {
				return true
			}
			continue
		}
		if inRange(r, row, col) {
			return true
		}
	}
	return false
}

// inRange reports whether the byte at row, col lies in r, end exclusive.
func inRange(r engine.Range, row, col int) bool {
	p := engine.Position{Row: row, Column: col}
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}
