package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sleuth/internal/browser"
	"sleuth/internal/config"
	"sleuth/internal/logging"
	"sleuth/internal/services"
)

const defaultPollInterval = 250 * time.Millisecond

var (
	errBudgetExhausted    = errors.New("wait budget exhausted")
	errNoClickableControl = errors.New("no clickable control")
)

// Session drives one lookup query through the portal: navigate, await the
// query input, dismiss consent, fill, submit, await results. A Session is
// single-use; build a fresh one per query. The page is owned by the caller
// and stays open after Run returns.
type Session struct {
	id     string
	cfg    *config.Config
	page   browser.Page
	logger *slog.Logger

	state State
	used  bool
}

// New builds a single-use session around an isolated page.
func New(cfg *config.Config, page browser.Page, logger *slog.Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		page:   page,
		logger: logging.NewComponentLogger(logger, "session"),
		state:  StateIdle,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Run executes the retrieval flow for query and returns the rendered result
// document. A lapsed result wait still returns the current document together
// with an advisory error that services.Expected classifies as a normal
// no-results outcome; every other error means the session failed and the
// document is empty.
func (s *Session) Run(ctx context.Context, query string) (string, error) {
	if s.used {
		return "", services.Wrap(services.ErrValidation, "session", "run", "session already used", nil)
	}
	s.used = true

	ctx = services.WithSessionID(ctx, s.id)
	ctx = services.WithQuery(ctx, query)
	logger := logging.WithContext(ctx, s.logger)

	started := time.Now()
	logger.InfoContext(ctx, "session started", logging.String("portal", s.cfg.Portal.URL))

	document, err := s.drive(ctx, logger, query)
	elapsed := time.Since(started)

	if err != nil && !services.Expected(err) {
		s.state = StateFailed
		logger.ErrorContext(ctx, "session failed",
			logging.Args(
				logging.Error(err),
				logging.Duration("elapsed", elapsed),
			)...)
		return "", err
	}

	s.state = StateDone
	attrs := []logging.Attr{
		logging.Duration("elapsed", elapsed),
		logging.Int("document_bytes", len(document)),
	}
	if err != nil {
		logger.WarnContext(ctx, "session completed without result signal",
			logging.Args(append(attrs, logging.Error(err))...)...)
	} else {
		logger.InfoContext(ctx, "session completed", logging.Args(attrs...)...)
	}
	return document, err
}

func (s *Session) drive(ctx context.Context, logger *slog.Logger, query string) (string, error) {
	if err := s.navigate(ctx, logger); err != nil {
		return "", err
	}
	if err := s.awaitInput(ctx, logger); err != nil {
		return "", err
	}
	s.dismissConsent(ctx, logger)
	if err := s.fill(ctx, query); err != nil {
		return "", err
	}
	if err := s.submit(ctx, logger); err != nil {
		return "", err
	}
	return s.awaitResults(ctx, logger)
}

func (s *Session) navigate(ctx context.Context, logger *slog.Logger) error {
	s.state = StateNavigating
	navCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Session.NavigationTimeout)*time.Second)
	defer cancel()
	if err := s.page.Navigate(navCtx, s.cfg.Portal.URL); err != nil {
		return services.Wrap(services.ErrNavigation, "session", "navigate", s.cfg.Portal.URL, err)
	}
	logger.DebugContext(ctx, "portal loaded", logging.String("url", s.cfg.Portal.URL))
	return nil
}

func (s *Session) awaitInput(ctx context.Context, logger *slog.Logger) error {
	s.state = StateAwaitingInteractiveElement
	locator := browser.BySelector(s.cfg.Portal.SearchInput)
	budget := time.Duration(s.cfg.Session.InputTimeout) * time.Second
	if _, err := s.awaitControls(ctx, locator, budget); err != nil {
		return services.Wrap(services.ErrControlNotFound, "session", "await input", locator.String(), err)
	}
	logger.DebugContext(ctx, "query input present", logging.String("locator", locator.String()))
	return nil
}

// dismissConsent clicks the consent button when present. Portals without a
// consent prompt are the common case, so absence is not an error and the
// attempt is made exactly once.
func (s *Session) dismissConsent(ctx context.Context, logger *slog.Logger) {
	text := strings.TrimSpace(s.cfg.Portal.ConsentButtonText)
	if text == "" {
		return
	}
	locator := browser.ByText("button", text)
	controls, err := s.page.Locate(ctx, locator)
	if err != nil || len(controls) == 0 {
		return
	}
	for _, control := range controls {
		if !control.Clickable(ctx) {
			continue
		}
		if err := control.Click(ctx); err == nil {
			logger.DebugContext(ctx, "consent dismissed", logging.String("locator", locator.String()))
		}
		return
	}
}

func (s *Session) fill(ctx context.Context, query string) error {
	locator := browser.BySelector(s.cfg.Portal.SearchInput)
	fillCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Session.InputTimeout)*time.Second)
	defer cancel()
	if err := s.page.Fill(fillCtx, locator, query); err != nil {
		return services.Wrap(services.ErrEngine, "session", "fill query input", locator.String(), err)
	}
	return nil
}

func (s *Session) submit(ctx context.Context, logger *slog.Logger) error {
	s.state = StateSubmitting
	submitCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Session.InputTimeout)*time.Second)
	defer cancel()
	locator, err := s.clickFirst(submitCtx, submitLocators)
	if err != nil {
		return services.Wrap(services.ErrSubmission, "session", "submit", "no submit control accepted the click", err)
	}
	logger.DebugContext(ctx, "query submitted", logging.String("locator", locator.String()))
	return nil
}

func (s *Session) awaitResults(ctx context.Context, logger *slog.Logger) (string, error) {
	s.state = StateAwaitingResults
	budget := time.Duration(s.cfg.Session.ResultTimeout) * time.Second
	deadline := time.Now().Add(budget)
	for {
		if signal, found := s.probeResults(ctx); found {
			logger.DebugContext(ctx, "results signalled", logging.String("signal", signal))
			return s.content(ctx)
		}
		if !time.Now().Before(deadline) {
			document, err := s.content(ctx)
			if err != nil {
				return "", err
			}
			return document, services.Wrap(services.ErrResultWait, "session", "await results",
				fmt.Sprintf("no result signal within %s", budget), nil)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval()):
		}
	}
}

// probeResults checks the result-container selectors, then falls back to the
// portal's empty-result phrases in the rendered document.
func (s *Session) probeResults(ctx context.Context) (string, bool) {
	for _, selector := range resultSelectors {
		controls, err := s.page.Locate(ctx, browser.BySelector(selector))
		if err != nil {
			continue
		}
		if len(controls) > 0 {
			return selector, true
		}
	}
	document, err := s.page.Content(ctx)
	if err != nil {
		return "", false
	}
	for _, phrase := range noResultsPhrases {
		if strings.Contains(document, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// awaitControls polls the locator until at least one control is present or
// the budget lapses.
func (s *Session) awaitControls(ctx context.Context, locator browser.Locator, budget time.Duration) ([]browser.Control, error) {
	deadline := time.Now().Add(budget)
	for {
		controls, err := s.page.Locate(ctx, locator)
		if err != nil {
			return nil, err
		}
		if len(controls) > 0 {
			return controls, nil
		}
		if !time.Now().Before(deadline) {
			return nil, errBudgetExhausted
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval()):
		}
	}
}

// clickFirst walks candidate locators and clicks the first clickable control,
// returning the locator that accepted the click.
func (s *Session) clickFirst(ctx context.Context, candidates []browser.Locator) (browser.Locator, error) {
	var lastErr error
	for _, locator := range candidates {
		if err := ctx.Err(); err != nil {
			return browser.Locator{}, err
		}
		controls, err := s.page.Locate(ctx, locator)
		if err != nil {
			lastErr = err
			continue
		}
		for _, control := range controls {
			if !control.Clickable(ctx) {
				continue
			}
			if err := control.Click(ctx); err != nil {
				lastErr = err
				continue
			}
			return locator, nil
		}
	}
	if lastErr == nil {
		lastErr = errNoClickableControl
	}
	return browser.Locator{}, lastErr
}

func (s *Session) content(ctx context.Context) (string, error) {
	document, err := s.page.Content(ctx)
	if err != nil {
		return "", services.Wrap(services.ErrEngine, "session", "read document", "", err)
	}
	return document, nil
}

func (s *Session) pollInterval() time.Duration {
	interval := time.Duration(s.cfg.Session.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return interval
}
