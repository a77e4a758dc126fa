// Package runtime drives a dom.Document from a terminal backend. Input
// events are delivered to the document the way a browser would deliver
// them, and the element tree is redrawn after every event.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/overui/pkg/ui/backend"
	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/inspect"
	"github.com/odvcencio/overui/pkg/ui/terminal"
)

var (
	ErrBackendRequired  = errors.New("runtime: backend is required")
	ErrDocumentRequired = errors.New("runtime: document is required")
	ErrBackendClosed    = errors.New("runtime: backend closed")
	ErrStopped          = errors.New("runtime: app is not running")

	errQuit = errors.New("quit")
)

// AppConfig configures an App.
type AppConfig struct {
	Backend  backend.Backend
	Document *dom.Document
	Logger   *zap.Logger
	// Mouse delivers pointer presses to the document.
	Mouse bool
	// Header is drawn on the first row, above the tree.
	Header  string
	Inspect inspect.Options
	// OnEvent runs on the loop goroutine after each terminal event has been
	// dispatched.
	OnEvent       func(terminal.Event)
	MessageBuffer int
}

// App runs a document against a terminal backend. An App runs once.
type App struct {
	backend backend.Backend
	doc     *dom.Document
	logger  *zap.Logger
	mouse   bool
	header  string
	status  string
	opts    inspect.Options
	onEvent func(terminal.Event)

	bufferSize int
	buffer     *Buffer
	calls      chan func()
	ready      chan struct{}
	stopped    chan struct{}
	readyOnce  sync.Once
}

// NewApp creates an App from cfg.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		backend:    cfg.Backend,
		doc:        cfg.Document,
		logger:     logger,
		mouse:      cfg.Mouse,
		header:     cfg.Header,
		opts:       cfg.Inspect,
		onEvent:    cfg.OnEvent,
		bufferSize: bufferSize,
		calls:      make(chan func()),
		ready:      make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Ready is closed once the backend is initialized and the first frame is
// drawn.
func (a *App) Ready() <-chan struct{} { return a.ready }

// Do runs fn with the document on the loop goroutine and redraws. Use it to
// read or change the document while the App is running.
func (a *App) Do(ctx context.Context, fn func(*dom.Document)) error {
	return a.call(ctx, func() { fn(a.doc) })
}

// SetStatus replaces the text drawn on the last row.
func (a *App) SetStatus(ctx context.Context, text string) error {
	return a.call(ctx, func() { a.status = text })
}

func (a *App) call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	call := func() {
		defer close(done)
		fn()
	}
	select {
	case a.calls <- call:
	case <-a.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run polls the backend and dispatches into the document until ctx is
// cancelled or Ctrl+C is pressed. Ctrl+C returns nil. No goroutine started
// by Run outlives it.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return ErrBackendRequired
	}
	if a.doc == nil {
		return ErrDocumentRequired
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()
	a.backend.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	events := make(chan terminal.Event, a.bufferSize)

	g.Go(func() error { return a.poll(gctx, events) })
	g.Go(func() error {
		defer func() {
			cancel()
			// PollEvent may be blocked on an empty queue.
			if err := a.backend.PostEvent(terminal.InterruptEvent{}); err != nil {
				a.logger.Debug("wake poller", zap.Error(err))
			}
		}()
		return a.loop(gctx, events)
	})

	err := g.Wait()
	if errors.Is(err, errQuit) {
		a.logger.Info("app quit")
		return nil
	}
	return err
}

func (a *App) poll(ctx context.Context, events chan<- terminal.Event) error {
	for {
		ev := a.backend.PollEvent()
		if ctx.Err() != nil {
			return nil
		}
		switch ev.(type) {
		case nil:
			return ErrBackendClosed
		case terminal.InterruptEvent:
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) loop(ctx context.Context, events <-chan terminal.Event) error {
	defer close(a.stopped)

	a.resize(a.backend.Size())
	a.render()
	a.readyOnce.Do(func() { close(a.ready) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case call := <-a.calls:
			call()
		case ev := <-events:
			if a.handle(ev) {
				return errQuit
			}
		}
		a.render()
	}
}

// handle dispatches one terminal event and reports whether to quit.
func (a *App) handle(ev terminal.Event) bool {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		if e.Key == terminal.KeyCtrlC || (e.Ctrl && e.Key == terminal.KeyRune && e.Rune == 'c') {
			return true
		}
		name := e.Name()
		if name == "" {
			return false
		}
		a.doc.KeyDown(name, dom.Mods{Shift: e.Shift, Alt: e.Alt, Ctrl: e.Ctrl, Meta: e.Meta})
		a.logger.Debug("key dispatched",
			zap.String("key", name),
			zap.Bool("shift", e.Shift),
			zap.String("active", a.doc.ActiveElement().ID),
		)
	case terminal.MouseEvent:
		button := e.Button.Index()
		if !a.mouse || e.Action != terminal.MousePress || button < 0 {
			return false
		}
		hit := a.doc.PointerAt(e.X, e.Y, button, dom.Mods{Shift: e.Shift, Alt: e.Alt, Ctrl: e.Ctrl})
		a.logger.Debug("pointer dispatched",
			zap.Int("x", e.X),
			zap.Int("y", e.Y),
			zap.Int("button", button),
			zap.String("target", hit.ID),
		)
	case terminal.ResizeEvent:
		a.resize(e.Width, e.Height)
		a.backend.Sync()
	case terminal.PasteEvent:
		a.paste(e.Text)
	}
	if a.onEvent != nil {
		a.onEvent(ev)
	}
	return false
}

// paste delivers pasted text to the focused element one key at a time.
// Carriage returns are dropped so CRLF pastes press Enter once per line.
func (a *App) paste(text string) {
	keys := 0
	for _, r := range text {
		name := string(r)
		switch r {
		case '\r':
			continue
		case '\n':
			name = "Enter"
		case '\t':
			name = "Tab"
		}
		a.doc.KeyDown(name, dom.Mods{})
		keys++
	}
	a.logger.Debug("paste dispatched",
		zap.Int("keys", keys),
		zap.String("active", a.doc.ActiveElement().ID),
	)
}

func (a *App) resize(w, h int) {
	a.doc.SetViewport(w, h)
	if a.buffer == nil {
		a.buffer = NewBuffer(w, h)
		return
	}
	a.buffer.Resize(w, h)
}

var (
	headerStyle   = backend.DefaultStyle().Bold(true)
	activeStyle   = backend.DefaultStyle().Reverse(true)
	disabledStyle = backend.DefaultStyle().Dim(true)
)

func (a *App) render() {
	buf := a.buffer
	buf.Clear()

	top := 0
	if a.header != "" {
		buf.SetString(0, 0, a.header, headerStyle)
		top = 1
	}
	rows := inspect.Rows(a.doc, a.opts)
	inspect.Layout(rows, a.opts, 0, top)
	for i, r := range rows {
		style := backend.DefaultStyle()
		switch {
		case r.Active:
			style = activeStyle
		case r.Disabled || r.Hidden:
			style = disabledStyle
		}
		x := buf.SetString(0, top+i, a.opts.Prefix(r), backend.DefaultStyle())
		buf.SetString(x, top+i, r.Label, style)
	}

	if _, h := buf.Size(); a.status != "" && h > top+len(rows) {
		buf.SetString(0, h-1, a.status, disabledStyle)
	}

	buf.ForEachDirtyCell(func(x, y int, c Cell) {
		if c.Rune == 0 {
			return
		}
		a.backend.SetContent(x, y, c.Rune, nil, c.Style)
	})
	buf.ClearDirty()
	a.backend.Show()
}
