// Package app wires configuration, logging, the users fetcher and the
// interactive menu, and handles interrupts during the session.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/patric-chuzhbe/userfinder/internal/config"
	"github.com/patric-chuzhbe/userfinder/internal/logger"
	"github.com/patric-chuzhbe/userfinder/internal/menu"
	"github.com/patric-chuzhbe/userfinder/internal/models"
	"github.com/patric-chuzhbe/userfinder/internal/screen"
	"github.com/patric-chuzhbe/userfinder/internal/usersfetcher"
)

type usersFetcher interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
}

type clearer interface {
	Clear()
}

// App encapsulates the configuration, the users source and the terminal
// the session runs on.
type App struct {
	cfg     *config.Config
	fetcher usersFetcher
	in      io.Reader
	out     io.Writer
	screen  clearer
}

// Option customizes New.
type Option func(*options)

type options struct {
	configOptions []config.InitOption
	fetcher       usersFetcher
	in            io.Reader
	out           io.Writer
	screen        clearer
}

// WithConfigOptions passes options through to config.New.
func WithConfigOptions(opts ...config.InitOption) Option {
	return func(o *options) {
		o.configOptions = append(o.configOptions, opts...)
	}
}

// WithFetcher replaces the HTTP users fetcher.
func WithFetcher(fetcher usersFetcher) Option {
	return func(o *options) {
		o.fetcher = fetcher
	}
}

// WithIO replaces standard input and output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.in = in
		o.out = out
	}
}

// WithClearer replaces the OS-dependent screen clearer.
func WithClearer(c clearer) Option {
	return func(o *options) {
		o.screen = c
	}
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - building the users fetcher and the screen clearer
func New(opts ...Option) (*App, error) {
	o := &options{
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := config.New(o.configOptions...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	err = logger.Init(cfg.LogLevel, cfg.LogOutput)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	app := &App{
		cfg:     cfg,
		fetcher: o.fetcher,
		in:      o.in,
		out:     o.out,
		screen:  o.screen,
	}

	if app.fetcher == nil {
		app.fetcher = usersfetcher.New(cfg.UsersURL, cfg.RequestTimeout)
	}
	if app.screen == nil {
		app.screen = screen.New(app.out)
	}

	return app, nil
}

// Run fetches the users once and, if that succeeds, runs the menu.
// An interrupt signal ends the session gracefully.
// A failed fetch is reported to the operator and is not an error.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.screen.Clear()
	a.print("\nFetching users from the API...\n")

	logger.Log.Infow("fetching users", "url", a.cfg.UsersURL, "timeout", a.cfg.RequestTimeout)

	users, err := a.fetcher.FetchUsers(ctx)
	if err != nil {
		logger.Log.Errorw("fetching users failed", "error", err)

		if errors.Is(err, usersfetcher.ErrInterrupted) {
			a.screen.Clear()
			a.print("\nProgram terminated by user.\n")
			return nil
		}

		a.print("\n" + usersfetcher.Describe(err) + "\n")
		a.print("\nCould not fetch user data. Please try again later.\n")
		return nil
	}

	logger.Log.Infow("users fetched", "count", len(users))

	return menu.New(
		users,
		a.in,
		a.out,
		menu.WithClearer(a.screen),
		menu.WithFormat(a.cfg.Format()),
	).Run(ctx)
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Fprintln(os.Stderr, "Logger sync error:", err)
	}
}

func (a *App) print(text string) {
	_, _ = io.WriteString(a.out, text)
}
