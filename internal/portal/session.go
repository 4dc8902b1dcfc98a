package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// State is the session's position in the portal flow.
type State int

const (
	StateLoggedOut State = iota
	StateLoggingIn
	StateAuthenticated
	StateNavigatingToReports
	StateReportsReady
	StateSelectingReport
	StateReportSelected
	StateDownloading
	StateLoggingOut
)

// Portal selectors. The login page and the reports window are portal-wide;
// module and report selectors belong to each Report implementation.
const (
	selLoginUser   = `input[name="usuario"]`
	selLoginPass   = `input[name="clave"]`
	selLoginSubmit = `button[type="submit"]`
	selLandingMenu = `#menu-principal`
	selReportsLink = `a[href*="reportes"]`
	selReportsHome = `#contenedor-reportes`
	selLogout      = `a[href*="salir"]`
)

// Session owns one authenticated portal login over one Automation page. It
// is not safe for concurrent use: one session drives one strictly sequential
// sequence of report operations, then logs out exactly once.
type Session struct {
	page    Automation
	baseURL string
	state   State
	closed  bool
	log     *slog.Logger
}

func NewSession(page Automation, baseURL string, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}

	return &Session{page: page, baseURL: baseURL, log: log}
}

// Page exposes the automation surface to Report implementations.
func (s *Session) Page() Automation { return s.page }

// State reports the current position in the portal flow.
func (s *Session) State() State { return s.state }

// Login submits the credentials and waits for the landing menu. Any failure
// along the way is an authentication error; the portal gives no way to tell
// a rejected password from a broken login page, and neither is retried.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	if s.state != StateLoggedOut {
		return fmt.Errorf("login from state %d: %w", s.state, ErrSessionLost)
	}

	s.state = StateLoggingIn

	err := s.doLogin(ctx, creds)
	if err != nil {
		s.state = StateLoggedOut
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	s.state = StateAuthenticated
	s.log.Info("portal login ok", "user", creds.Username)

	return nil
}

func (s *Session) doLogin(ctx context.Context, creds Credentials) error {
	if err := s.page.Goto(ctx, s.baseURL); err != nil {
		return err
	}

	if err := s.page.Fill(ctx, selLoginUser, creds.Username); err != nil {
		return err
	}

	if err := s.page.Fill(ctx, selLoginPass, creds.Password); err != nil {
		return err
	}

	if err := s.page.Click(ctx, selLoginSubmit); err != nil {
		return err
	}

	return s.page.WaitVisible(ctx, selLandingMenu)
}

// GoToReports opens the reports window the portal spawns as a popup. A
// failure here forces a logout so a half-open session does not leak.
func (s *Session) GoToReports(ctx context.Context) error {
	if s.state != StateAuthenticated {
		return fmt.Errorf("reports navigation from state %d: %w", s.state, ErrSessionLost)
	}

	s.state = StateNavigatingToReports

	err := s.page.Popup(ctx, func(ctx context.Context) error {
		return s.page.Click(ctx, selReportsLink)
	})
	if err == nil {
		err = s.page.WaitVisible(ctx, selReportsHome)
	}

	if err != nil {
		s.Logout(ctx)
		return fmt.Errorf("%w: opening reports window: %v", ErrSessionLost, err)
	}

	s.state = StateReportsReady

	return nil
}

// SelectModule picks a report category in the catalog UI and polls the
// module's own report list until it is interactive. The portal exposes no
// deterministic "module loaded" signal, so readiness is the report list
// selector becoming visible, bounded by the caller's context.
func (s *Session) SelectModule(ctx context.Context, moduleSelector, readySelector string) error {
	if s.state != StateReportsReady && s.state != StateReportSelected {
		return fmt.Errorf("module selection from state %d: %w", s.state, ErrSessionLost)
	}

	s.state = StateSelectingReport

	if err := s.page.Click(ctx, moduleSelector); err != nil {
		s.state = StateReportsReady
		return fmt.Errorf("%w: selecting module: %v", ErrSessionLost, err)
	}

	if err := s.page.WaitVisible(ctx, readySelector); err != nil {
		s.state = StateReportsReady
		return fmt.Errorf("%w: module never became interactive: %v", ErrSessionLost, err)
	}

	s.state = StateReportSelected

	return nil
}

// DownloadFile fills nothing itself: the Report's trigger fills the
// parameter form and starts generation; the session waits for the saved
// file. A failure invalidates this attempt only, the session stays usable.
func (s *Session) DownloadFile(ctx context.Context, trigger func(context.Context) error) (string, error) {
	if s.state != StateReportSelected {
		return "", fmt.Errorf("download from state %d: %w", s.state, ErrSessionLost)
	}

	s.state = StateDownloading

	path, err := s.page.Download(ctx, trigger)

	s.state = StateReportSelected

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}

	s.log.Info("report downloaded", "path", path)

	return path, nil
}

// Logout tears the session down. It is safe to call from any state and more
// than once; failures are logged, never escalated, so the original error of
// a failing flow is the one callers see. The page is closed exactly once,
// even when the session never got past login.
func (s *Session) Logout(ctx context.Context) {
	if s.closed {
		return
	}

	s.closed = true

	// Bound the goodbye: a dead portal must not hang the cleanup path.
	lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	if s.state != StateLoggedOut {
		s.state = StateLoggingOut

		if err := s.page.Click(lctx, selLogout); err != nil {
			s.log.Warn("portal logout failed", "error", err)
		}
	}

	if err := s.page.Close(lctx); err != nil {
		s.log.Warn("closing automation page failed", "error", err)
	}

	s.state = StateLoggedOut
}
