// Package menu runs the interactive loop over a fetched set of users:
// show all, filter by name, change display format, exit.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/userfinder/internal/logger"
	"github.com/patric-chuzhbe/userfinder/internal/models"
	"github.com/patric-chuzhbe/userfinder/internal/renderer"
	"github.com/patric-chuzhbe/userfinder/internal/usersfilter"
)

// errStopped is returned by reads once input is exhausted or the context is done.
var errStopped = errors.New("input stopped")

const (
	choiceShowAll      = "1"
	choiceFilter       = "2"
	choiceChangeFormat = "3"
	choiceExit         = "4"

	formatChoiceBack = "5"
)

const mainMenu = `
Options:
1. Show all users
2. Filter users by name (supports regex)
3. Change display format
4. Exit
`

const formatMenu = `
Choose display format:
1. Standard format
2. JSON format
3. Table format
4. Compact format
5. Back to main menu
`

const patternHelp = `
Regex Pattern Examples:
  ^A        - names starting with A
  a$        - names ending with a
  .*son.*   - names containing 'son'
  [AM].*    - names starting with A or M
  John\b    - names with a word ending in 'John'

Special Characters:
  Add \ before . * + ? ^ $ [ ] ( ) { } | \ to match them literally
  Example: \. matches literal dot, \* matches literal asterisk
`

const invalidPatternTips = `Tips:
- Use \. to match a literal dot
- Use \* to match a literal asterisk
- Use \[ to match a literal square bracket
- Add \ before any special character to match it literally
`

const missingName = "<no name>"

type clearer interface {
	Clear()
}

type noClear struct{}

func (noClear) Clear() {}

// Menu is one interactive session. It is not safe for concurrent use.
type Menu struct {
	users  []models.User
	in     io.Reader
	out    io.Writer
	screen clearer
	format models.Format
	lines  <-chan string
}

// Option customizes a Menu.
type Option func(*Menu)

// WithClearer sets the screen clearer; by default the screen is never cleared.
func WithClearer(c clearer) Option {
	return func(m *Menu) {
		m.screen = c
	}
}

// WithFormat sets the initial display format.
func WithFormat(format models.Format) Option {
	return func(m *Menu) {
		m.format = format
	}
}

// New returns a menu over users reading choices from in and writing to out.
func New(users []models.User, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		users:  users,
		in:     in,
		out:    out,
		screen: noClear{},
		format: models.FormatStandard,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Format returns the current display format.
func (m *Menu) Format() models.Format {
	return m.format
}

// Run shows the main menu until the operator exits, input ends or ctx is canceled.
// Errors inside one iteration are reported and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.lines = readLines(ctx, m.in)

	for {
		done, err := m.step(ctx)
		if errors.Is(err, errStopped) {
			m.screen.Clear()
			m.print("\n\nProgram interrupted by user. Exiting...\n")
			return nil
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (m *Menu) step(ctx context.Context) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorw("menu iteration failed", "panic", r)
			m.printf("\nAn unexpected error occurred: %v\n", r)
			m.print("Please try again.\n")
			done = false
			err = m.pause(ctx)
		}
	}()

	m.print(mainMenu)
	choice, err := m.prompt(ctx, "\nEnter your choice (1-4): ")
	if err != nil {
		return false, err
	}

	switch choice {
	case choiceShowAll:
		m.print("\nShowing all users:\n")
		return false, m.display(ctx, m.users)

	case choiceFilter:
		return false, m.filter(ctx)

	case choiceChangeFormat:
		return false, m.chooseFormat(ctx)

	case choiceExit:
		m.screen.Clear()
		m.print("\nGoodbye!\n")
		return true, nil

	default:
		m.print("\nInvalid choice. Please enter 1-4.\n")
		return false, m.pause(ctx)
	}
}

func (m *Menu) filter(ctx context.Context) error {
	m.screen.Clear()
	m.print(patternHelp)
	m.print("\nAvailable names for reference:\n")
	for _, name := range userNames(m.users) {
		m.printf("  - %s\n", name)
	}

	pattern, err := m.prompt(ctx, "\nEnter a regex pattern to search for (or '\\' + text for literal search): ")
	if err != nil {
		return err
	}

	if pattern == "" {
		m.print("\nEmpty search term - showing all users\n")
		return m.display(ctx, m.users)
	}

	result := usersfilter.Apply(m.users, pattern)
	m.reportStrategy(result)

	if len(result.Users) == 0 {
		m.printf("\nNo users found matching pattern '%s' in their name.\n", pattern)
		return nil
	}

	m.printf("\nFound %d user(s) matching pattern '%s' in their name:\n", len(result.Users), pattern)
	for _, name := range userNames(result.Users) {
		m.printf("  - %s\n", name)
	}

	m.printf("\nShowing users matching pattern '%s':\n", pattern)
	return m.display(ctx, result.Users)
}

func (m *Menu) reportStrategy(result usersfilter.Result) {
	matcher := result.Matcher

	switch matcher.Strategy {
	case usersfilter.StrategyForcedLiteral:
		m.printf("\nUsing literal search pattern: %s\n", matcher.Expr)
	case usersfilter.StrategyRegex, usersfilter.StrategyFallbackLiteral:
		m.printf("\nUsing regex pattern: %s\n", matcher.Pattern)
	}

	if matcher.CompileErr != nil {
		m.printf("\nInvalid regular expression: %v\n", matcher.CompileErr)
		m.print(invalidPatternTips)
		m.print("\nFalling back to plain text search...\n")
	}

	if result.Strategy == usersfilter.StrategySubstring {
		m.printf("\nError during pattern matching: %v\n", result.MatchErr)
		m.print("Falling back to plain text search...\n")
	}
}

func (m *Menu) chooseFormat(ctx context.Context) error {
	for {
		m.screen.Clear()
		m.print(formatMenu)

		choice, err := m.prompt(ctx, "\nEnter your choice (1-5): ")
		if err != nil {
			return err
		}

		if choice == formatChoiceBack {
			m.screen.Clear()
			return nil
		}

		format, ok := formatByChoice(choice)
		if !ok {
			m.print("\nInvalid choice. Please enter 1-5.\n")
			if err := m.pause(ctx); err != nil {
				return err
			}
			continue
		}

		m.format = format
		logger.Log.Debugw("display format changed", "format", format)
		if err := m.display(ctx, m.users); err != nil {
			return err
		}
	}
}

func formatByChoice(choice string) (models.Format, bool) {
	for i, format := range models.Formats {
		if choice == fmt.Sprint(i+1) {
			return format, true
		}
	}
	return "", false
}

// display renders users in the current format. Render failures are
// reported and end this display only.
func (m *Menu) display(ctx context.Context, users []models.User) error {
	m.screen.Clear()

	if err := renderer.Render(m.out, m.format, users); err != nil {
		logger.Log.Warnw("rendering users failed", "format", m.format, "error", err)

		var missing *models.MissingFieldError
		if errors.As(err, &missing) {
			m.printf("\nError: Missing required field in user data: '%s'\n", missing.Field)
			return nil
		}
		m.printf("\nError while displaying users: %v\n", err)
		return nil
	}

	if err := m.pause(ctx); err != nil {
		return err
	}
	m.screen.Clear()

	return nil
}

func (m *Menu) pause(ctx context.Context) error {
	_, err := m.prompt(ctx, "\nPress Enter to continue...")
	return err
}

func (m *Menu) prompt(ctx context.Context, text string) (string, error) {
	m.print(text)

	select {
	case <-ctx.Done():
		return "", errStopped
	case line, ok := <-m.lines:
		if !ok {
			return "", errStopped
		}
		return strings.TrimSpace(line), nil
	}
}

func (m *Menu) print(text string) {
	_, _ = io.WriteString(m.out, text)
}

func (m *Menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

func userNames(users []models.User) []string {
	return funk.Map(users, func(u models.User) string {
		name, ok := u.NameValue()
		if !ok {
			return missingName
		}
		return name
	}).([]string)
}

// readLines feeds lines of in to the returned channel until EOF or ctx is done.
// Reading happens on its own goroutine so a pending read can be abandoned on interrupt.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Log.Warnw("reading input failed", "error", err)
		}
	}()
	return lines
}
