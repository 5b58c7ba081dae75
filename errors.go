package breeze

import (
	"errors"

	"github.com/breeze-go/breeze/internal/transport"
	"github.com/breeze-go/breeze/normalize"
)

var (
	// ErrInvalidConfig reports a client that cannot be built: a bad base URL,
	// a missing API key, or unreadable environment settings.
	ErrInvalidConfig = errors.New("breeze: invalid configuration")

	// ErrInvalidArgument reports call arguments that cannot form a request.
	ErrInvalidArgument = errors.New("breeze: invalid argument")

	// ErrRequestFailed is matched by *RequestError: the service could not be
	// reached within the retry budget.
	ErrRequestFailed = transport.ErrRequestFailed

	// ErrRemoteRejected is matched by *RemoteError: the service answered and
	// refused the request.
	ErrRemoteRejected = transport.ErrRemoteRejected

	// ErrUnrecognizedAction is matched by account-log entries whose action is
	// neither built in nor registered with WithAccountLogActions.
	ErrUnrecognizedAction = normalize.ErrUnrecognizedAction
)

type (
	RequestError = transport.RequestError
	RemoteError  = transport.RemoteError
)
