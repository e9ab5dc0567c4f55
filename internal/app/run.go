package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editsync/internal/split"
	"github.com/dshills/editsync/internal/view"
)

// Run draws the mounted editor on screen and processes terminal events until
// ctx is done or the user quits. Quitting returns ErrQuit.
func (a *App) Run(ctx context.Context, screen tcell.Screen) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer screen.Fini()

	a.view = view.New(screen)
	a.logger.Info("running on a %s terminal", screen.CharacterSet())

	var quit error
	go a.poll(screen, func(err error) {
		quit = err
		a.loop.Stop()
	})

	a.loop.Post(a.draw)
	err := a.loop.Run(ctx)
	if quit != nil {
		return quit
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// poll forwards terminal events to the loop until the screen is finalized.
// stop runs on the loop goroutine.
func (a *App) poll(screen tcell.Screen, stop func(error)) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if !a.loop.Post(func() {
			if err := a.handleEvent(ev); err != nil {
				stop(err)
			}
		}) {
			return
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventResize:
		for _, ed := range a.Editors() {
			ed.Renderer().Resize(false)
		}
		a.view.Screen().Sync()
		a.draw()
	}
	return nil
}

// draw repaints the whole screen. It does nothing headless.
func (a *App) draw() {
	if a.view == nil {
		return
	}
	scr := a.view.Screen()
	w, h := scr.Size()
	scr.HideCursor()
	scr.Clear()
	if a.host != nil && h > 1 {
		a.host.draw(a.view, split.Rect{Width: w, Height: h - 1}, a.focus)
	}
	a.view.DrawStatus(h-1, w, a.statusLine())
	scr.Show()
}

func (a *App) statusLine() string {
	line := " " + a.doc.Name
	if line == " " {
		line = " editsync"
	}
	if ed := a.Focused(); ed != nil {
		c := ed.Selection().Cursor()
		line += fmt.Sprintf("  pane %d  %d:%d", a.focus, c.Row+1, c.Column+1)
		if v, ok := ed.Option("readOnly"); ok {
			if ro, _ := v.(bool); ro {
				line += "  [RO]"
			}
		}
	}
	if a.status != "" {
		line += "  " + a.status
	}
	return line
}

// RunHeadless writes the mounted state to w. With Options.Watch it then
// keeps running, writing the state again after every reload, until ctx is
// done.
func (a *App) RunHeadless(ctx context.Context, w io.Writer) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	a.Summary(w)
	if a.watcher == nil {
		return nil
	}

	a.loop.Post(func() { a.out = w })
	err := a.loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
