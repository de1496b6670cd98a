package hotkeys

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/deskswap/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Trigger names an action a global key sequence can fire.
type Trigger string

const (
	NextWorkspace Trigger = "next_workspace"
	NewWorkspace  Trigger = "new_workspace"
	Reset         Trigger = "reset"
	Palette       Trigger = "palette"
)

// Triggers lists every known trigger in display order.
var Triggers = []Trigger{NextWorkspace, NewWorkspace, Reset, Palette}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler maps triggers to callbacks and key sequences to triggers. Key
// grabs dispatch through the table, so replacing a callback never touches
// the X server.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	mu       sync.Mutex
	actions  map[Trigger]func()
	bindings map[Trigger]string
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler. Backends without X11 access get a
// handler that can dispatch but not bind keys.
func NewHandler(backend platform.Backend, logger *slog.Logger) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		xu:       xu,
		root:     root,
		logger:   logger,
		actions:  make(map[Trigger]func()),
		bindings: make(map[Trigger]string),
	}
}

// Handle sets the callback for a trigger, replacing any previous one.
// A nil fn removes it.
func (h *Handler) Handle(trigger Trigger, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if fn == nil {
		delete(h.actions, trigger)
		return
	}
	h.actions[trigger] = fn
}

// Fire runs the trigger's callback. It reports false when none is set.
// Panics in callbacks are recovered so a bad action cannot kill the event loop.
func (h *Handler) Fire(trigger Trigger) (ran bool) {
	h.mu.Lock()
	fn := h.actions[trigger]
	h.mu.Unlock()
	if fn == nil {
		h.logger.Debug("hotkey has no action", "trigger", trigger)
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("hotkey action panicked", "trigger", trigger, "panic", r)
		}
	}()
	ran = true
	fn()
	return ran
}

// Bind grabs a key sequence (xgbutil syntax, e.g. "Mod4-Tab") for the trigger.
func (h *Handler) Bind(trigger Trigger, keySequence string) error {
	if h.xu == nil {
		return fmt.Errorf("hotkey %s: no X11 connection", trigger)
	}
	if keySequence == "" {
		return nil
	}

	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.logger.Debug("hotkey pressed", "trigger", trigger, "keys", keySequence)
		h.Fire(trigger)
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to bind %s to %q: %w", trigger, keySequence, err)
	}

	h.mu.Lock()
	h.bindings[trigger] = keySequence
	h.mu.Unlock()
	return nil
}

// Rebind releases every grab and binds the given sequences. Triggers with an
// empty sequence stay unbound. All bindings are attempted; the first error
// is returned.
func (h *Handler) Rebind(bindings map[Trigger]string) error {
	if h.xu == nil {
		return fmt.Errorf("no X11 connection")
	}

	keybind.Detach(h.xu, h.root)
	h.mu.Lock()
	h.bindings = make(map[Trigger]string)
	h.mu.Unlock()

	triggers := make([]Trigger, 0, len(bindings))
	for t := range bindings {
		triggers = append(triggers, t)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })

	var firstErr error
	for _, t := range triggers {
		if err := h.Bind(t, bindings[t]); err != nil {
			h.logger.Error("hotkey bind failed", "trigger", t, "keys", bindings[t], "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Bindings returns the currently grabbed key sequences.
func (h *Handler) Bindings() map[Trigger]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[Trigger]string, len(h.bindings))
	for t, k := range h.bindings {
		out[t] = k
	}
	return out
}

// Valid reports whether t is a known trigger.
func Valid(t Trigger) bool {
	for _, known := range Triggers {
		if t == known {
			return true
		}
	}
	return false
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
