package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangadesk/pkg/state"
)

// stateChangedMsg asks the program to re-render after a view model changed.
type stateChangedMsg struct{}

// watcher coalesces view model changes into stateChangedMsg. Flow
// subscribers never block, so view models may publish from any goroutine.
type watcher struct {
	changed chan struct{}
}

func newWatcher() *watcher {
	return &watcher{changed: make(chan struct{}, 1)}
}

func (w *watcher) notify() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// watchFlow subscribes w to f and returns the unsubscribe func.
func watchFlow[T any](w *watcher, f state.StateFlow[T]) func() {
	return f.Subscribe(func(T) { w.notify() })
}

// Wait returns a command that blocks until the next change.
func (w *watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		<-w.changed
		return stateChangedMsg{}
	}
}

func unsubscribeAll(unsubs []func()) {
	for _, unsub := range unsubs {
		unsub()
	}
}
