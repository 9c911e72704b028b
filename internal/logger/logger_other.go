//go:build !darwin && !linux

package logger

import (
	"os"

	"golang.org/x/term"
)

// Escape codes are not assumed to work here even when attached to a terminal
const SupportsColorEscapes = false

func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	fd := int(file.Fd())

	if term.IsTerminal(fd) {
		info.IsTTY = true
		if width, _, err := term.GetSize(fd); err == nil {
			info.Width = width
		}
	}

	return
}
