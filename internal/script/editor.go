package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/editsync/internal/engine"
)

// newEditorTable builds the API table a command sees. Rows and columns are
// zero-based, as everywhere else.
func newEditorTable(L *lua.LState, ed engine.Editor) *lua.LTable {
	funcs := map[string]lua.LGFunction{
		"value": func(L *lua.LState) int {
			L.Push(lua.LString(ed.Value()))
			return 1
		},
		"set_value": func(L *lua.LState) int {
			ed.SetValue(L.CheckString(1), L.OptInt(2, engine.CursorDocEnd))
			return 0
		},
		"insert": func(L *lua.LState) int {
			ed.Insert(L.CheckString(1))
			return 0
		},
		"line": func(L *lua.LState) int {
			L.Push(lua.LString(ed.Session().Line(L.CheckInt(1))))
			return 1
		},
		"line_count": func(L *lua.LState) int {
			L.Push(lua.LNumber(ed.Session().LineCount()))
			return 1
		},
		"cursor": func(L *lua.LState) int {
			p := ed.Selection().Cursor()
			L.Push(lua.LNumber(p.Row))
			L.Push(lua.LNumber(p.Column))
			return 2
		},
		"move_cursor": func(L *lua.LState) int {
			ed.Selection().MoveCursorTo(L.CheckInt(1), L.CheckInt(2))
			return 0
		},
		"selected_text": func(L *lua.LState) int {
			L.Push(lua.LString(ed.Session().TextRange(ed.Selection().Range())))
			return 1
		},
		"select_all": func(L *lua.LState) int {
			ed.Selection().SelectAll()
			return 0
		},
		"undo": func(L *lua.LState) int {
			ed.Undo()
			return 0
		},
		"option": func(L *lua.LState) int {
			v, ok := ed.Option(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(toLua(L, v))
			return 1
		},
		"set_option": func(L *lua.LState) int {
			name := L.CheckString(1)
			if err := ed.SetOption(name, fromLua(L.CheckAny(2))); err != nil {
				L.RaiseError("set_option %s: %v", name, err)
			}
			return 0
		},
		"exec": func(L *lua.LState) int {
			var args any
			if L.GetTop() >= 2 {
				args = fromLua(L.Get(2))
			}
			L.Push(lua.LBool(ed.Commands().Exec(L.CheckString(1), ed, args)))
			return 1
		},
	}
	return L.SetFuncs(L.NewTable(), funcs)
}
