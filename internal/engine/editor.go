package engine

// Cursor placement for Editor.SetValue.
const (
	// CursorSelectAll selects the whole new value.
	CursorSelectAll = 0
	// CursorDocStart moves the cursor to the start of the buffer.
	CursorDocStart = -1
	// CursorDocEnd moves the cursor to the end of the buffer.
	CursorDocEnd = 1
)

// Selection is a session's selection and cursor.
type Selection interface {
	Range() Range
	Cursor() Position
	IsEmpty() bool
	SelectAll()
	SetRange(r Range)
	MoveCursorTo(row, column int)
	ClearSelection()
}

// UndoManager is a session's undo history.
type UndoManager interface {
	Reset()
	HasUndo() bool
}

// Session holds the buffer and the decorations anchored to it.
type Session interface {
	Value() string
	// SetValue replaces the buffer, moves the cursor to the start and
	// resets the undo history.
	SetValue(text string)
	TextRange(r Range) string
	Line(row int) string
	LineCount() int

	Mode() Mode
	SetMode(m Mode)
	UseWrapMode() bool
	SetUseWrapMode(wrap bool)

	// AddMarker registers a marker and returns the id the engine assigns.
	AddMarker(r Range, class, typ string, inFront bool) int
	RemoveMarker(id int)
	// Markers returns the front or back marker registry keyed by id.
	Markers(inFront bool) map[int]Marker

	SetAnnotations(list []Annotation)
	Annotations() []Annotation
	ClearAnnotations()

	Selection() Selection
	UndoManager() UndoManager

	ScrollTop() int
	SetScrollTop(top int)
}

// Renderer is the visual state of an editor that the adapter configures.
type Renderer interface {
	ShowGutter() bool
	SetShowGutter(show bool)

	ScrollMargin() [4]int
	SetScrollMargin(top, bottom, left, right int)

	// Placeholder returns the placeholder text and whether it is shown.
	Placeholder() (string, bool)
	SetPlaceholder(text string)
	RemovePlaceholder()

	// GutterDecorations returns the gutter's annotation decorations.
	GutterDecorations() []GutterDecoration

	Resize(force bool)
}

// Editor is one engine instance.
type Editor interface {
	Value() string
	// SetValue replaces the buffer and places the cursor according to
	// cursorPos (CursorSelectAll, CursorDocStart or CursorDocEnd).
	SetValue(text string, cursorPos int)
	Insert(text string)
	Undo()

	Session() Session
	Selection() Selection
	Commands() CommandManager
	Renderer() Renderer

	// HasOption reports whether the engine recognizes the option.
	HasOption(name string) bool
	// SetOption sets a recognized option; unknown names yield ErrUnknownOption.
	SetOption(name string, value any) error
	Option(name string) (any, bool)
	Options() []string

	Theme() string
	SetTheme(theme string)
	FontSize() string
	SetFontSize(size string)
	KeyboardHandler() string
	// SetKeyboardHandler attaches a keymap; the empty string detaches it.
	SetKeyboardHandler(handler string)
	ShowPrintMargin() bool
	SetShowPrintMargin(show bool)
	ClassName() string
	SetClassName(name string)

	NavigateFileEnd()
	NavigateFileStart()

	Focus()
	Blur()
	IsFocused() bool
	// Copy emits EventCopy with the selected text and returns it.
	Copy() string
	// Paste emits EventPaste and inserts text at the cursor.
	Paste(text string)

	// SetProperty assigns a free-form property onto the instance.
	SetProperty(key string, value any)
	Property(key string) (any, bool)

	Subscribe(t EventType, fn Handler) Subscription

	// Destroy detaches the instance. Further calls have no effect.
	Destroy()
	Destroyed() bool
}

// Extension contributes options and commands to editors created after it is
// registered.
type Extension struct {
	Name     string
	Options  map[string]any
	Commands []*Command
}

// Library is the engine library handle.
type Library interface {
	// Register adds an extension. Registering a name twice fails with
	// ErrDuplicateExtension.
	Register(ext Extension) error
	Extensions() []string
	NewEditor() Editor
}
