// Package portal drives an authenticated session against the legacy
// reporting portal. The portal is a stateful single-tab web UI, not an API:
// one session owns one browser context, walks a fixed state machine, and a
// lost session means starting over, not retrying mid-flow.
package portal

import (
	"context"
	"errors"

	"github.com/dparodi/hacienda/internal/record"
)

//go:generate mockgen -source=portal.go -destination=automation_mock.go -package=portal

// Automation is the opaque UI-automation surface the session drives. The
// session never assumes a specific browser engine beyond these operations.
type Automation interface {
	Goto(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	WaitVisible(ctx context.Context, selector string) error

	// Download runs trigger and blocks until the download it starts has been
	// saved, returning the saved file's path.
	Download(ctx context.Context, trigger func(context.Context) error) (string, error)

	// Popup runs trigger and switches the active page to the window the
	// portal opens in response.
	Popup(ctx context.Context, trigger func(context.Context) error) error

	Close(ctx context.Context) error
}

// Credentials authenticate one portal session.
type Credentials struct {
	Username string
	Password string
}

var (
	// ErrInvalidCredentials is the authentication error class: the portal
	// rejected the login, or the login flow never reached the landing page.
	ErrInvalidCredentials = errors.New("unable to authenticate against the portal")

	// ErrSessionLost means navigation failed mid-flow and the session is no
	// longer usable.
	ErrSessionLost = errors.New("portal session lost")

	// ErrDownload means report generation or the file download failed. It
	// invalidates the report attempt, not the session.
	ErrDownload = errors.New("report download failed")
)

// Report is one concrete portal report type. Implementations know which
// module and report to select in the portal's catalog, how to fill the
// parameter form, and how to turn the downloaded file into normalized rows.
type Report interface {
	Name() string
	GoToSpecificReport(ctx context.Context, s *Session) error
	DownloadReport(ctx context.Context, s *Session, ejercicio int) (string, error)
	ProcessRows(path string) ([]record.Record, error)
}
