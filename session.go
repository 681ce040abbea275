package bikeshare

import (
	"context"
	"io"
	"log/slog"
)

// Session runs the interactive prompt, load, page and report cycle
// until the user declines to restart.
type Session struct {
	Prompter *Prompter
	Pager    *Pager
	Loader   *Loader
	Reporter *Reporter
	Logger   *slog.Logger
}

func NewSession(in io.Reader, out io.Writer, loader *Loader) *Session {
	prompter := NewPrompter(in, out)
	return &Session{
		Prompter: prompter,
		Pager:    NewPager(prompter),
		Loader:   loader,
		Reporter: NewReporter(out),
		Logger:   slog.Default(),
	}
}

// Runs iterations until the user says no to restarting. Returns the
// number of completed iterations. Any error ends the session without
// running the remaining reports.
func (s *Session) Run(ctx context.Context) (int, error) {
	iterations := 0
	for {
		err := s.RunOnce(ctx)
		if err != nil {
			return iterations, err
		}
		iterations++

		restart, err := s.Prompter.Restart()
		if err != nil {
			return iterations, err
		}
		if !restart {
			s.Logger.Debug("session done", slog.Int("iterations", iterations))
			return iterations, nil
		}
	}
}

// Runs a single iteration: prompt for filters, load, page and report.
func (s *Session) RunOnce(ctx context.Context) error {
	criteria, err := s.Prompter.Filters()
	if err != nil {
		return err
	}

	table, err := s.Loader.Load(ctx, criteria)
	if err != nil {
		return err
	}
	defer func() {
		if err := table.Release(); err != nil {
			s.Logger.Warn("releasing table", slog.String("error", err.Error()))
		}
	}()

	_, err = s.Pager.Run(table)
	if err != nil {
		return err
	}

	s.Reporter.All(table)

	return nil
}
