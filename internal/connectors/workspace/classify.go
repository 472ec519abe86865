package workspace

import (
	"errors"
	"strings"
	"syscall"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// classify maps a raw failure from a workspace call to an indexing error kind.
// Errors that are already classified are returned unchanged.
//
// Service errors:
//   - unauthorized: fatal
//   - null message: unprocessable
//   - message mentions "login": fatal, the credentials are bad
//   - anything else: unprocessable
//
// Transport errors:
//   - connection refused: fatal retriable, the connection is unusable
//   - anything else: retriable
func classify(err error) error {
	if err == nil {
		return nil
	}

	var ie *domain.IndexingError
	if errors.As(err, &ie) {
		return err
	}

	var ue *UnauthorizedError
	if errors.As(err, &ue) {
		return domain.NewFatalError(ue.Error(), err)
	}

	var se *ServerError
	if errors.As(err, &se) {
		if se.Message == nil {
			return domain.NewUnprocessableEventError("Null error message from workspace server", err)
		}
		msg := *se.Message
		if strings.Contains(strings.ToLower(msg), "login") {
			return domain.NewFatalError("Workspace credentials are invalid: "+msg, err)
		}
		// some of these may turn out to deserve a retry
		return domain.NewUnprocessableEventError(
			"Unrecoverable error from workspace on fetching object: "+msg, err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.NewFatalRetriableError(err.Error(), err)
	}
	return domain.NewRetriableError(err.Error(), err)
}
