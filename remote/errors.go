// Package remote implements the cross-process sharing layer: an object host
// serving named singleton resources over a unix-socket endpoint, typed
// capability proxies for client processes, and error forwarding that
// preserves the failing error's kind and message across the boundary while
// carrying its stack as text.
//
// Key concepts:
//   - Capability: a named resource with an explicit table of sync/async
//     operations, serialized by one per-resource lock
//   - Host: the state machine owning the endpoint
//     (Unregistered → Registered → Listening → Stopped)
//   - RemoteError: the transportable failure form {kind, message, trace}
//   - Conn / proxies: the client side, matching responses by correlation id
package remote

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/axiomchain/go-axiom/chain"
	"github.com/axiomchain/go-axiom/chaindb"
	"github.com/axiomchain/go-axiom/genesis"
	"github.com/axiomchain/go-axiom/node"
)

// genericKind tags failures whose concrete type is not registered; they
// surface client-side as the *RemoteError itself.
const genericKind = "RemoteCallError"

// RemoteTrace is a lightweight marker holding the textual stack of a remote
// failure. Live frames cannot cross the process boundary; the text can.
type RemoteTrace struct {
	Trace string
}

func (t *RemoteTrace) Error() string {
	return t.Trace
}

// RemoteError is the wire form of a failure raised inside a proxied call:
// the original error's kind tag and message, its structured payload for
// known kinds, and the formatted remote stack.
type RemoteError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Payload string `json:"payload,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s: %s", e.Kind, e.Message)
}

// kindSpec ties an error kind tag to its host-side matcher and client-side
// rebuilder. The payload carries the one field each known type is built
// from, so reconstruction is exact rather than parsed out of the message.
type kindSpec struct {
	kind    string
	match   func(err error) (payload string, ok bool)
	rebuild func(payload string) error
}

// kinds is the closed set of error types whose identity survives the
// boundary. Everything else crosses as a generic RemoteError.
var kinds = []kindSpec{
	{
		kind: "NotFoundError",
		match: func(err error) (string, bool) {
			var e *chaindb.NotFoundError
			if errors.As(err, &e) {
				return e.Msg, true
			}
			return "", false
		},
		rebuild: func(payload string) error { return &chaindb.NotFoundError{Msg: payload} },
	},
	{
		kind: "ValidationError",
		match: func(err error) (string, bool) {
			var e *chain.ValidationError
			if errors.As(err, &e) {
				return e.Msg, true
			}
			return "", false
		},
		rebuild: func(payload string) error { return &chain.ValidationError{Msg: payload} },
	},
	{
		kind: "ConfigError",
		match: func(err error) (string, bool) {
			var e *genesis.ConfigError
			if errors.As(err, &e) {
				return e.Field, true
			}
			return "", false
		},
		rebuild: func(payload string) error { return &genesis.ConfigError{Field: payload} },
	},
	{
		kind: "MissingPathError",
		match: func(err error) (string, bool) {
			var e *node.MissingPathError
			if errors.As(err, &e) {
				return e.Path, true
			}
			return "", false
		},
		rebuild: func(payload string) error { return &node.MissingPathError{Path: payload} },
	},
}

// Forward converts a host-side failure into its wire form, capturing the
// stack as text at the point the middleware intercepts it.
func Forward(err error) *RemoteError {
	remote := &RemoteError{
		Kind:    genericKind,
		Message: err.Error(),
		Trace:   fmt.Sprintf("%+v", withStack(err)),
	}
	for _, spec := range kinds {
		if payload, ok := spec.match(err); ok {
			remote.Kind = spec.kind
			remote.Payload = payload
			break
		}
	}
	return remote
}

// withStack attaches a stack to err unless it already carries one.
func withStack(err error) error {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return errors.WithStack(err)
}

// Rebuild reconstructs the client-side error: an error of the original kind
// and message for registered kinds (so errors.As keeps working across the
// boundary), with the remote trace attached as its cause.
func (e *RemoteError) Rebuild() error {
	for _, spec := range kinds {
		if spec.kind == e.Kind {
			return &forwardedError{inner: spec.rebuild(e.Payload), trace: e.Trace}
		}
	}
	return &forwardedError{inner: e, trace: e.Trace}
}

// forwardedError wraps the reconstructed error. Unwrap exposes the original
// type for errors.As/Is; the remote trace is attached as the cause and shows
// up under %+v rendering.
type forwardedError struct {
	inner error
	trace string
}

func (f *forwardedError) Error() string {
	return f.inner.Error()
}

func (f *forwardedError) Unwrap() error {
	return f.inner
}

// Cause returns the remote trace marker.
func (f *forwardedError) Cause() *RemoteTrace {
	return &RemoteTrace{Trace: f.trace}
}

func (f *forwardedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s\nremote traceback:\n\"\"\"\n%s\n\"\"\"", f.inner.Error(), f.trace)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, f.Error())
	case 'q':
		fmt.Fprintf(s, "%q", f.Error())
	}
}

// TraceOf extracts the remote trace attached to a forwarded error, if any.
func TraceOf(err error) (string, bool) {
	for err != nil {
		if f, ok := err.(*forwardedError); ok {
			return f.trace, true
		}
		if re, ok := err.(*RemoteError); ok {
			return re.Trace, true
		}
		err = errors.Unwrap(err)
	}
	return "", false
}

// mustMarshal encodes a handler result. Results are plain JSON-encodable
// values by construction; an encoding failure is a programming error but is
// still forwarded rather than dropped.
func mustMarshal(value interface{}) (json.RawMessage, *RemoteError) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, Forward(errors.Wrap(err, "encode result"))
	}
	return raw, nil
}
