package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editsync/internal/engine"
)

// handleKey routes a terminal key to the focused editor. Bound commands run
// first; unbound keys fall back to plain editing. It returns ErrQuit on
// Ctrl-Q or Escape, and Shift-Tab moves focus to the next pane.
func (a *App) handleKey(ev *tcell.EventKey) error {
	if isQuit(ev) {
		return ErrQuit
	}
	if ev.Key() == tcell.KeyBacktab {
		a.cycleFocus()
		return nil
	}

	ed := a.Focused()
	if ed == nil {
		return nil
	}
	if spec := keySpec(ev, ed.Commands().Platform()); spec != "" {
		if ed.Commands().ExecKey(spec, ed) {
			a.draw()
			return nil
		}
	}

	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
			ed.Insert(string(ev.Rune()))
		}
	case tcell.KeyEnter:
		ed.Insert("\n")
	case tcell.KeyTab:
		ed.Insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		deleteBackward(ed)
	case tcell.KeyDelete:
		deleteForward(ed)
	case tcell.KeyLeft:
		moveCursor(ed, 0, -1)
	case tcell.KeyRight:
		moveCursor(ed, 0, 1)
	case tcell.KeyUp:
		moveCursor(ed, -1, 0)
	case tcell.KeyDown:
		moveCursor(ed, 1, 0)
	case tcell.KeyHome:
		ed.Selection().MoveCursorTo(ed.Selection().Cursor().Row, 0)
	case tcell.KeyEnd:
		row := ed.Selection().Cursor().Row
		ed.Selection().MoveCursorTo(row, len(ed.Session().Line(row)))
	}
	a.draw()
	return nil
}

// cycleFocus moves keyboard focus to the next pane.
func (a *App) cycleFocus() {
	eds := a.Editors()
	if len(eds) < 2 {
		return
	}
	eds[a.focus].Blur()
	a.focus = (a.focus + 1) % len(eds)
	eds[a.focus].Focus()
	a.setStatus(fmt.Sprintf("pane %d", a.focus))
}

func isQuit(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape:
		return true
	case ev.Key() == tcell.KeyCtrlQ && ev.Modifiers()&tcell.ModCtrl != 0:
		return true
	case ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// keySpec renders ev the way key bindings are written, such as "ctrl-s"
// or "command-alt-f". On the mac platform the terminal's Ctrl stands in
// for Command. Keys without a modifier return "". Tab, Enter and Backspace
// share codes with Ctrl-I, Ctrl-M and Ctrl-H, so a control code only counts
// as Ctrl when tcell reports the modifier.
func keySpec(ev *tcell.EventKey, p engine.Platform) string {
	mods := ev.Modifiers()
	var name string
	switch {
	case ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ:
		if mods&tcell.ModCtrl == 0 {
			return ""
		}
		name = string(rune('a' + ev.Key() - tcell.KeyCtrlA))
	case ev.Key() == tcell.KeyRune:
		name = strings.ToLower(string(ev.Rune()))
	default:
		if n, ok := tcell.KeyNames[ev.Key()]; ok {
			name = strings.ToLower(n)
		}
	}
	if name == "" || mods&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		return ""
	}

	var parts []string
	if mods&tcell.ModCtrl != 0 {
		if p == engine.PlatformMac {
			parts = append(parts, "command")
		} else {
			parts = append(parts, "ctrl")
		}
	}
	if mods&tcell.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if mods&tcell.ModShift != 0 {
		parts = append(parts, "shift")
	}
	return strings.Join(append(parts, name), "-")
}

func deleteBackward(ed engine.Editor) {
	sel := ed.Selection()
	if sel.IsEmpty() {
		c := sel.Cursor()
		switch {
		case c.Column > 0:
			_, size := utf8.DecodeLastRuneInString(ed.Session().Line(c.Row)[:c.Column])
			sel.SetRange(engine.NewRange(c.Row, c.Column-size, c.Row, c.Column))
		case c.Row > 0:
			prev := len(ed.Session().Line(c.Row - 1))
			sel.SetRange(engine.NewRange(c.Row-1, prev, c.Row, 0))
		default:
			return
		}
	}
	ed.Insert("")
}

func deleteForward(ed engine.Editor) {
	sel := ed.Selection()
	if sel.IsEmpty() {
		c := sel.Cursor()
		line := ed.Session().Line(c.Row)
		switch {
		case c.Column < len(line):
			_, size := utf8.DecodeRuneInString(line[c.Column:])
			sel.SetRange(engine.NewRange(c.Row, c.Column, c.Row, c.Column+size))
		case c.Row < ed.Session().LineCount()-1:
			sel.SetRange(engine.NewRange(c.Row, c.Column, c.Row+1, 0))
		default:
			return
		}
	}
	ed.Insert("")
}

// moveCursor steps the cursor by rows or by one rune, collapsing any
// selection.
func moveCursor(ed engine.Editor, dRow, dCol int) {
	sess := ed.Session()
	c := ed.Selection().Cursor()
	row, col := c.Row+dRow, c.Column
	if row < 0 || row >= sess.LineCount() {
		return
	}
	line := sess.Line(row)
	switch {
	case dCol < 0 && col > 0:
		_, size := utf8.DecodeLastRuneInString(line[:min(col, len(line))])
		col -= size
	case dCol < 0 && row > 0:
		row--
		col = len(sess.Line(row))
	case dCol > 0 && col < len(line):
		_, size := utf8.DecodeRuneInString(line[col:])
		col += size
	case dCol > 0 && row < sess.LineCount()-1:
		row, col = row+1, 0
	}
	if col > len(sess.Line(row)) {
		col = len(sess.Line(row))
	}
	ed.Selection().MoveCursorTo(row, col)
}
