package panels

// CloseModalMsg signals that the help overlay should be closed.
type CloseModalMsg struct{}
