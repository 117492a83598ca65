package spc

import (
	"errors"
	"os"

	"github.com/BTBurke/spc/pkg/stat"
	"github.com/stvp/rollbar"
)

// TokenEnv names the environment variable holding the Rollbar access token.  Reporting is
// disabled when it is unset.
const TokenEnv = "SPC_ROLLBAR_TOKEN"

// SuppressErrorReporting is a global flag to prevent the client
// from sending unhandled errors to Rollbar.  Data is anonymous and
// consists only of the error and a stack trace.
var SuppressErrorReporting bool

// ErrorReporter sends unexpected errors to an external crash reporting service
type ErrorReporter interface {
	ReportError(err error)
}

type errorService struct{}

func init() {
	switch env := os.Getenv("environment"); env {
	case "development":
		rollbar.Environment = "development"
	default:
		rollbar.Environment = "production"
	}
	rollbar.Token = os.Getenv(TokenEnv)
}

// NewErrorReporter returns a reporter backed by Rollbar
func NewErrorReporter() ErrorReporter {
	return errorService{}
}

// ReportError will send the result of an unexpected error to Rollbar.  Input errors
// describe bad data rather than a defect and are never sent.
func (e errorService) ReportError(err error) {
	if shouldReport(err) {
		rollbar.Error(rollbar.ERR, err)
	}
}

// FlushErrors blocks until queued reports have been sent
func FlushErrors() {
	rollbar.Wait()
}

func shouldReport(err error) bool {
	if err == nil || SuppressErrorReporting || rollbar.Token == "" {
		return false
	}
	var inputErr stat.InputError
	return !errors.As(err, &inputErr)
}
