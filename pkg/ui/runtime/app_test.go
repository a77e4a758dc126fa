package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/odvcencio/overui/pkg/ui/backend/sim"
	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/terminal"
)

type harness struct {
	t      *testing.T
	be     *sim.Backend
	app    *App
	doc    *dom.Document
	done   chan error
	cancel context.CancelFunc
}

func start(t *testing.T, doc *dom.Document, cfg AppConfig) *harness {
	t.Helper()
	be := sim.New(60, 12)
	cfg.Backend = be
	cfg.Document = doc
	app := NewApp(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	h := &harness{t: t, be: be, app: app, doc: doc, done: make(chan error, 1), cancel: cancel}
	go func() { h.done <- app.Run(ctx) }()

	select {
	case <-app.Ready():
	case err := <-h.done:
		t.Fatalf("Run exited early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("app never became ready")
	}
	return h
}

// eventually polls cond on the loop goroutine until it holds.
func (h *harness) eventually(what string, cond func(*dom.Document) bool) {
	h.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var ok bool
		if err := h.app.Do(context.Background(), func(doc *dom.Document) { ok = cond(doc) }); err != nil {
			h.t.Fatalf("Do: %v", err)
		}
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.t.Fatalf("timed out waiting for %s", what)
}

func (h *harness) wait() error {
	h.t.Helper()
	defer h.cancel()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		h.t.Fatal("Run did not return")
		return nil
	}
}

func buttons() (*dom.Document, *dom.Element, *dom.Element) {
	doc := dom.NewDocument()
	a := dom.NewElement("button", dom.WithID("a"), dom.WithText("Alpha"))
	b := dom.NewElement("button", dom.WithID("b"), dom.WithText("Beta"))
	doc.Body.AppendChild(a)
	doc.Body.AppendChild(b)
	return doc, a, b
}

func TestApp_KeysDispatchAndCtrlCQuits(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc, a, b := buttons()
	clicks := 0
	b.AddEventListener(dom.EventClick, func(*dom.Event) { clicks++ })

	var seen []terminal.Event
	h := start(t, doc, AppConfig{Header: "demo", OnEvent: func(ev terminal.Event) { seen = append(seen, ev) }})

	h.be.InjectKeyName("Tab", false)
	h.eventually("a focused", func(d *dom.Document) bool { return d.ActiveElement() == a })
	h.be.InjectKeyName("Tab", false)
	h.be.InjectKeyName("Enter", false)
	h.eventually("b clicked", func(d *dom.Document) bool { return d.ActiveElement() == b && clicks == 1 })
	h.be.InjectKeyName("Tab", true)
	h.eventually("a refocused", func(d *dom.Document) bool { return d.ActiveElement() == a })

	if !h.be.ContainsText("demo") {
		t.Error("header not drawn")
	}
	if !h.be.ContainsText(`> button#a "Alpha"`) {
		t.Errorf("focused row not drawn:\n%s", h.be.Capture())
	}

	h.be.InjectKey(terminal.KeyCtrlC, 0)
	if err := h.wait(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if len(seen) != 4 {
		t.Errorf("OnEvent saw %d events, want 4", len(seen))
	}
	if err := h.app.Do(context.Background(), func(*dom.Document) {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Do after stop = %v, want ErrStopped", err)
	}
}

func TestApp_PasteDeliversKeys(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc, a, _ := buttons()
	var keys []string
	clicks := 0
	a.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) { keys = append(keys, ev.Key) })
	a.AddEventListener(dom.EventClick, func(*dom.Event) { clicks++ })
	doc.Focus(a)

	h := start(t, doc, AppConfig{})
	if err := h.be.InjectPaste("hi\r\n"); err != nil {
		t.Fatalf("InjectPaste: %v", err)
	}
	h.eventually("paste delivered", func(*dom.Document) bool {
		return strings.Join(keys, ",") == "h,i,Enter" && clicks == 1
	})

	h.be.InjectKey(terminal.KeyCtrlC, 0)
	if err := h.wait(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestApp_MouseHitsRenderedRow(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc, _, b := buttons()
	clicks := 0
	b.AddEventListener(dom.EventClick, func(*dom.Event) { clicks++ })

	h := start(t, doc, AppConfig{Mouse: true})
	x, y := h.be.FindText(`button#b`)
	if x < 0 {
		t.Fatalf("row for b not drawn:\n%s", h.be.Capture())
	}

	h.be.InjectClick(x+1, y, terminal.MouseLeft)
	h.eventually("b pressed", func(d *dom.Document) bool { return d.ActiveElement() == b && clicks == 1 })

	// right click focuses without clicking
	h.be.InjectClick(x+1, y-1, terminal.MouseRight)
	h.eventually("a focused", func(d *dom.Document) bool { return d.ActiveElement().ID == "a" })
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}

	h.cancel()
	if err := h.wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
}

func TestApp_MouseDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc, _, b := buttons()
	h := start(t, doc, AppConfig{})
	x, y := h.be.FindText(`button#b`)
	h.be.InjectClick(x, y, terminal.MouseLeft)
	h.be.InjectKeyName("Tab", false)
	h.eventually("tab handled", func(d *dom.Document) bool { return d.ActiveElement().ID == "a" })
	h.app.Do(context.Background(), func(d *dom.Document) {
		if d.ActiveElement() == b {
			t.Error("mouse input should be ignored")
		}
	})
	h.be.InjectKey(terminal.KeyCtrlC, 0)
	if err := h.wait(); err != nil {
		t.Fatal(err)
	}
}

func TestApp_RequiresBackendAndDocument(t *testing.T) {
	if err := NewApp(AppConfig{}).Run(context.Background()); !errors.Is(err, ErrBackendRequired) {
		t.Errorf("Run() = %v, want ErrBackendRequired", err)
	}
	err := NewApp(AppConfig{Backend: sim.New(1, 1)}).Run(context.Background())
	if !errors.Is(err, ErrDocumentRequired) {
		t.Errorf("Run() = %v, want ErrDocumentRequired", err)
	}
}

func TestApp_ResizeUpdatesViewport(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc, _, _ := buttons()
	h := start(t, doc, AppConfig{})
	h.be.InjectResize(30, 5)
	h.eventually("viewport resized", func(d *dom.Document) bool {
		w, hh := d.Viewport()
		return w == 30 && hh == 5
	})
	if !strings.Contains(h.be.Capture(), "button#a") {
		t.Error("tree not redrawn after resize")
	}
	h.be.InjectKey(terminal.KeyCtrlC, 0)
	if err := h.wait(); err != nil {
		t.Fatal(err)
	}
}

func TestApp_SetStatusDrawsLastRow(t *testing.T) {
	defer goleak.VerifyNone(t)

	doc, _, _ := buttons()
	h := start(t, doc, AppConfig{Header: "demo"})
	if err := h.app.SetStatus(context.Background(), "layer.dismissed escape"); err != nil {
		t.Fatal(err)
	}
	// The frame after SetStatus is drawn before the next call runs.
	h.eventually("frame drawn", func(*dom.Document) bool { return true })

	lines := strings.Split(h.be.Capture(), "\n")
	if len(lines) < 12 || !strings.HasPrefix(lines[11], "layer.dismissed escape") {
		t.Errorf("last row = %q, want status", lines[len(lines)-1])
	}
	if !strings.HasPrefix(lines[0], "demo") {
		t.Errorf("first row = %q, want header", lines[0])
	}

	h.cancel()
	if err := h.wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
	if err := h.app.SetStatus(context.Background(), "late"); !errors.Is(err, ErrStopped) {
		t.Errorf("SetStatus after stop = %v, want ErrStopped", err)
	}
}
