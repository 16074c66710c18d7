package panels

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const gTimeout = 300 * time.Millisecond

// GTimerExpiredMsg is sent when a "gg" window expires. ID identifies which
// panel's timer fired.
type GTimerExpiredMsg struct{ ID int }

const (
	gTapIDTree = iota + 1
	gTapIDValue
	gTapIDConsole
)

// DoubleTap tracks the "gg" jump-to-top chord.
type DoubleTap struct {
	Pending bool
	id      int
}

func NewDoubleTap(id int) DoubleTap {
	return DoubleTap{id: id}
}

// Check handles a "g" keypress. It reports fired on the second tap and
// otherwise returns the timer that closes the window.
func (dt *DoubleTap) Check() (fired bool, cmd tea.Cmd) {
	if dt.Pending {
		dt.Pending = false
		return true, nil
	}
	dt.Pending = true
	id := dt.id
	return false, tea.Tick(gTimeout, func(time.Time) tea.Msg {
		return GTimerExpiredMsg{ID: id}
	})
}

// HandleExpiry clears Pending if msg belongs to this panel.
func (dt *DoubleTap) HandleExpiry(msg GTimerExpiredMsg) bool {
	if msg.ID != dt.id {
		return false
	}
	dt.Pending = false
	return true
}

// Reset drops a half-typed chord, e.g. when another key is pressed.
func (dt *DoubleTap) Reset() {
	dt.Pending = false
}
