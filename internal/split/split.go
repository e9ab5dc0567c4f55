// Package split drives several engine instances as one editor.
//
// A Split owns an ordered set of panes, each a single-editor adapter. Shared
// props fan out to every pane; per-pane props are looked up by index. Change
// notifications from all panes go through one debounce and report the
// content of every pane.
package split

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/editsync/internal/adapter"
	"github.com/dshills/editsync/internal/debounce"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/logging"
)

// ErrNoPane is returned for a pane index outside the pane set.
var ErrNoPane = errors.New("no such pane")

type paneChange struct {
	pane   int
	values []string
	delta  engine.Delta
}

// Option configures a Split.
type Option func(*Split)

// WithLogger sets the logger for the split and its panes.
func WithLogger(l *logging.Logger) Option {
	return func(s *Split) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScheduler sets the scheduler for debounced change notifications.
func WithScheduler(sch debounce.Scheduler) Option {
	return func(s *Split) {
		if sch != nil {
			s.scheduler = sch
		}
	}
}

// Split is a multi-pane editor.
type Split struct {
	id        string
	lib       engine.Library
	props     Props
	panes     []*adapter.Adapter
	logger    *logging.Logger
	scheduler debounce.Scheduler
	change    *debounce.Func[paneChange]
	destroyed bool
}

// New mounts props.Splits panes created from lib.
func New(lib engine.Library, props Props, opts ...Option) *Split {
	s := &Split{
		id:        uuid.NewString(),
		lib:       lib,
		logger:    logging.Default(),
		scheduler: debounce.SystemScheduler{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("split").WithField("split", s.id)
	s.props = props

	if props.OnBeforeLoad != nil {
		props.OnBeforeLoad(lib)
	}
	s.change = s.newCoalescer(props.DebounceChangePeriod)
	for i := 0; i < props.splits(); i++ {
		s.addPane(props)
	}
	s.logger.Debug("mounted %d panes, %s", len(s.panes), props.Orientation)

	if props.OnLoad != nil {
		props.OnLoad(s)
	}
	return s
}

func (s *Split) newCoalescer(period time.Duration) *debounce.Func[paneChange] {
	return debounce.New(s.deliverChange, period, debounce.WithScheduler(s.scheduler))
}

// addPane mounts the next pane. Only the first pane reports unknown
// options, since every pane validates the same options against the same
// library.
func (s *Split) addPane(p Props) {
	i := len(s.panes)
	opts := []adapter.Option{
		adapter.WithLogger(s.logger.WithField("pane", i)),
		adapter.WithScheduler(s.scheduler),
		adapter.WithChangeHandler(func(_ string, d engine.Delta) {
			s.change.Call(paneChange{pane: i, values: s.Values(), delta: d})
		}),
	}
	if i > 0 {
		opts = append(opts, adapter.WithoutDiagnostics())
	}
	s.panes = append(s.panes, adapter.New(s.lib, s.pane(i, p), opts...))
}

func (s *Split) deliverChange(c paneChange) {
	if s.destroyed {
		return
	}
	if fn := s.props.OnChange; fn != nil {
		fn(c.pane, c.values, c.delta)
	}
}

// Configure applies next to every pane, creating or destroying panes when the
// pane count changes.
func (s *Split) Configure(next Props) error {
	if s.destroyed {
		return adapter.ErrDestroyed
	}
	prev := s.props
	s.props = next

	n := next.splits()
	for len(s.panes) > n {
		last := len(s.panes) - 1
		s.panes[last].Destroy()
		s.panes = s.panes[:last]
	}
	for i, a := range s.panes {
		if err := a.Configure(s.pane(i, next)); err != nil {
			return fmt.Errorf("pane %d: %w", i, err)
		}
	}
	for len(s.panes) < n {
		s.addPane(next)
	}

	if next.DebounceChangePeriod != prev.DebounceChangePeriod {
		s.change.Cancel()
		s.change = s.newCoalescer(next.DebounceChangePeriod)
	}
	if next.Orientation != prev.Orientation || n != prev.splits() {
		s.logger.Debug("layout %d panes, %s", n, next.Orientation)
	}
	return nil
}

// Editor returns the engine instance of pane i.
func (s *Split) Editor(i int) (engine.Editor, error) {
	a, err := s.Adapter(i)
	if err != nil {
		return nil, err
	}
	return a.Editor()
}

// Adapter returns the adapter driving pane i.
func (s *Split) Adapter(i int) (*adapter.Adapter, error) {
	if s.destroyed {
		return nil, adapter.ErrDestroyed
	}
	if i < 0 || i >= len(s.panes) {
		return nil, fmt.Errorf("pane %d of %d: %w", i, len(s.panes), ErrNoPane)
	}
	return s.panes[i], nil
}

// Splits returns the number of live panes.
func (s *Split) Splits() int {
	return len(s.panes)
}

// Orientation returns the configured orientation.
func (s *Split) Orientation() Orientation {
	return s.props.Orientation
}

// Props returns the snapshot applied last.
func (s *Split) Props() (Props, error) {
	if s.destroyed {
		return Props{}, adapter.ErrDestroyed
	}
	return s.props, nil
}

// ID returns the split's unique id, used in log fields.
func (s *Split) ID() string {
	return s.id
}

// Values returns the content of every pane.
func (s *Split) Values() []string {
	values := make([]string, len(s.panes))
	for i, a := range s.panes {
		if ed, err := a.Editor(); err == nil {
			values[i] = ed.Value()
		}
	}
	return values
}

// ForEach calls fn for every live pane, in order.
func (s *Split) ForEach(fn func(i int, ed engine.Editor)) {
	for i, a := range s.panes {
		if ed, err := a.Editor(); err == nil {
			fn(i, ed)
		}
	}
}

// Diagnostics returns the unknown-option diagnostics reported for the split.
func (s *Split) Diagnostics() []adapter.Diagnostic {
	if len(s.panes) == 0 {
		return nil
	}
	return s.panes[0].Diagnostics()
}

// FlushChange delivers a pending debounced change notification now.
func (s *Split) FlushChange() bool {
	if s.destroyed {
		return false
	}
	return s.change.Flush()
}

// Destroy tears down every pane. It is safe to call more than once.
func (s *Split) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.change.Cancel()
	for _, a := range s.panes {
		a.Destroy()
	}
	s.panes = nil
	s.logger.Debug("destroyed")
}

// Destroyed reports whether Destroy was called.
func (s *Split) Destroyed() bool {
	return s.destroyed
}
