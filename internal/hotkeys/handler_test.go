package hotkeys

import (
	"testing"

	"github.com/1broseidon/deskswap/internal/platform"
)

func TestHandleReplacesCallback(t *testing.T) {
	h := NewHandler(platform.NewMockBackend(), nil)

	var calls []string
	h.Handle(NextWorkspace, func() { calls = append(calls, "first") })
	if !h.Fire(NextWorkspace) {
		t.Fatal("expected Fire to run the callback")
	}

	h.Handle(NextWorkspace, func() { calls = append(calls, "second") })
	h.Fire(NextWorkspace)

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}

	h.Handle(NextWorkspace, nil)
	if h.Fire(NextWorkspace) {
		t.Error("removed trigger should not fire")
	}
}

func TestFireUnknownTrigger(t *testing.T) {
	h := NewHandler(platform.NewMockBackend(), nil)
	if h.Fire(Reset) {
		t.Error("trigger without a callback should report false")
	}
}

func TestFireRecoversPanics(t *testing.T) {
	h := NewHandler(platform.NewMockBackend(), nil)
	h.Handle(Reset, func() { panic("boom") })

	if !h.Fire(Reset) {
		t.Error("Fire should report the callback ran")
	}
}

func TestBindWithoutX11(t *testing.T) {
	h := NewHandler(platform.NewMockBackend(), nil)
	if err := h.Bind(NextWorkspace, "Mod4-Tab"); err == nil {
		t.Error("expected an error binding without an X11 connection")
	}
	if err := h.Rebind(map[Trigger]string{NextWorkspace: "Mod4-Tab"}); err == nil {
		t.Error("expected an error rebinding without an X11 connection")
	}
	if got := h.Bindings(); len(got) != 0 {
		t.Errorf("Bindings = %v, want none", got)
	}
}

func TestValid(t *testing.T) {
	for _, tr := range Triggers {
		if !Valid(tr) {
			t.Errorf("Valid(%q) = false", tr)
		}
	}
	if Valid("tile") {
		t.Error("Valid(tile) = true")
	}
}
