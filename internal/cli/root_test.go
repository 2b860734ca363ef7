package cli

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestDisableColorIfNotATerminalForcesAsciiUnderTest(t *testing.T) {
	// go test's stdout is a pipe, never a tty, so this should always
	// force the plain-ASCII profile when run here.
	disableColorIfNotATerminal()
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
}
