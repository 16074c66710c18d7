package layout

// Layout holds the computed cell dimensions for all panels.
type Layout struct {
	TermWidth  int
	TermHeight int
	TooSmall   bool

	// Left column
	TreeWidth  int
	TreeHeight int

	// Right column: value on top, console underneath when shown
	ValueWidth    int
	ValueHeight   int
	ConsoleWidth  int
	ConsoleHeight int

	StatusBarWidth int
}

const (
	MinWidth  = 80
	MinHeight = 24

	LeftColWeight  = 0.45
	ValueRowWeight = 0.65
)

// Calculate computes panel dimensions from terminal size. One row is kept
// for the status bar. Without the console the value panel takes the whole
// right column.
func Calculate(termWidth, termHeight int, showConsole bool) Layout {
	l := Layout{
		TermWidth:  termWidth,
		TermHeight: termHeight,
	}

	if termWidth < MinWidth || termHeight < MinHeight {
		l.TooSmall = true
		return l
	}

	usableHeight := termHeight - 1

	l.TreeWidth = int(float64(termWidth) * LeftColWeight)
	l.TreeHeight = usableHeight

	rightWidth := termWidth - l.TreeWidth
	l.ValueWidth = rightWidth
	l.ValueHeight = usableHeight
	if showConsole {
		l.ValueHeight = int(float64(usableHeight) * ValueRowWeight)
		l.ConsoleWidth = rightWidth
		l.ConsoleHeight = usableHeight - l.ValueHeight
	}

	l.StatusBarWidth = termWidth
	return l
}
