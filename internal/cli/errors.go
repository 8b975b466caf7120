package cli

import (
	"errors"

	"github.com/sgaunet/git-mcp/internal/mcpserver"
	"github.com/sgaunet/git-mcp/internal/timeutil"
	"github.com/sgaunet/git-mcp/pkg/platform"
)

// Exit codes by error kind.
const (
	exitGeneric     = 1
	exitPlatform    = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitInvalidRef  = 5
	exitRateLimited = 6
)

var errAborted = errors.New("aborted")

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch platform.KindOf(err) {
	case platform.NotFound:
		return exitNotFound
	case platform.AuthenticationFailed, platform.PermissionDenied:
		return exitAuth
	case platform.InvalidReference:
		return exitInvalidRef
	case platform.RateLimited:
		return exitRateLimited
	case platform.UnknownPlatform, platform.AdapterInitializationFailed:
		return exitPlatform
	default:
		return exitGeneric
	}
}

// ErrorMessage renders an error for the terminal. Platform errors show their
// kind first and their retry-after hint last.
func ErrorMessage(err error) string {
	var perr *platform.Error
	if !errors.As(err, &perr) {
		return err.Error()
	}
	if perr.RetryAfter > 0 {
		return string(perr.Kind) + ": " + perr.Message + ", retry in " + timeutil.FormatDuration(perr.RetryAfter)
	}
	return mcpserver.ErrorText(err)
}
