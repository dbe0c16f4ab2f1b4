// Package screen clears the terminal the menu is drawn on.
package screen

import (
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/mattn/go-isatty"

	"github.com/patric-chuzhbe/userfinder/internal/logger"
)

// ansiClear moves the cursor home and erases the display.
const ansiClear = "\033[H\033[2J"

const windows = "windows"

// Runner executes an external command with its output attached to out.
type Runner func(out io.Writer, name string, args ...string) error

func runCommand(out io.Writer, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = out
	return cmd.Run()
}

// Clearer clears the screen using the convention of the host OS.
type Clearer struct {
	out     io.Writer
	goos    string
	enabled bool
	run     Runner
}

// Option customizes a Clearer.
type Option func(*Clearer)

// WithGOOS overrides the detected operating system.
func WithGOOS(goos string) Option {
	return func(c *Clearer) {
		c.goos = goos
	}
}

// WithEnabled forces clearing on or off regardless of the terminal check.
func WithEnabled(enabled bool) Option {
	return func(c *Clearer) {
		c.enabled = enabled
	}
}

// WithRunner replaces the command runner used on Windows.
func WithRunner(run Runner) Option {
	return func(c *Clearer) {
		c.run = run
	}
}

// New returns a Clearer writing to out. Clearing is enabled only when
// out is a terminal, so redirected output is never polluted.
func New(out io.Writer, opts ...Option) *Clearer {
	c := &Clearer{
		out:     out,
		goos:    runtime.GOOS,
		enabled: isTerminal(out),
		run:     runCommand,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Clear clears the screen. Failures are logged and otherwise ignored.
func (c *Clearer) Clear() {
	if c == nil || !c.enabled {
		return
	}

	if c.goos == windows {
		if err := c.run(c.out, "cmd", "/c", "cls"); err != nil {
			logger.Log.Debugw("clearing screen failed", "error", err)
		}
		return
	}

	if _, err := io.WriteString(c.out, ansiClear); err != nil {
		logger.Log.Debugw("clearing screen failed", "error", err)
	}
}
