package remote

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomchain/go-axiom/chain"
	"github.com/axiomchain/go-axiom/chaindb"
	"github.com/axiomchain/go-axiom/genesis"
	"github.com/axiomchain/go-axiom/node"
)

// TestForwardRebuild_knownKinds verifies that each registered error type
// crosses the boundary with its kind and message intact and comes back as
// the original type.
func TestForwardRebuild_knownKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"not found", &chaindb.NotFoundError{Msg: "header 0xabc not found"}, "NotFoundError"},
		{"validation", &chain.ValidationError{Msg: "block 7 does not extend the canonical head"}, "ValidationError"},
		{"config", &genesis.ConfigError{Field: "gasLimit"}, "ConfigError"},
		{"missing path", &node.MissingPathError{Path: "/data/axiom"}, "MissingPathError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := Forward(tt.err)
			assert.Equal(t, tt.kind, remote.Kind)
			assert.Equal(t, tt.err.Error(), remote.Message)
			assert.NotEmpty(t, remote.Trace)

			rebuilt := remote.Rebuild()
			assert.Equal(t, tt.err.Error(), rebuilt.Error())
		})
	}
}

func TestRebuild_preservesTypeForErrorsAs(t *testing.T) {
	rebuilt := Forward(&chaindb.NotFoundError{Msg: "canonical head not found"}).Rebuild()

	var notFound *chaindb.NotFoundError
	require.True(t, errors.As(rebuilt, &notFound))
	assert.Equal(t, "canonical head not found", notFound.Msg)
	assert.True(t, chaindb.IsNotFound(rebuilt))
}

// TestForward_wrappedError verifies that matching sees through error
// wrapping on the host side.
func TestForward_wrappedError(t *testing.T) {
	wrapped := errors.Wrap(&chain.ValidationError{Msg: "bad linkage"}, "import failed")

	remote := Forward(wrapped)
	assert.Equal(t, "ValidationError", remote.Kind)
	assert.Equal(t, "bad linkage", remote.Payload)
}

func TestForward_unknownKind(t *testing.T) {
	remote := Forward(errors.New("disk on fire"))
	assert.Equal(t, "RemoteCallError", remote.Kind)

	rebuilt := remote.Rebuild()
	var re *RemoteError
	require.True(t, errors.As(rebuilt, &re))
	assert.Equal(t, "disk on fire", re.Message)
}

// TestRebuild_traceAttached verifies that the remote stack text survives as
// the rebuilt error's cause and renders under %+v.
func TestRebuild_traceAttached(t *testing.T) {
	remote := Forward(&chaindb.NotFoundError{Msg: "no such header"})
	require.NotEmpty(t, remote.Trace)

	rebuilt := remote.Rebuild()

	trace, ok := TraceOf(rebuilt)
	require.True(t, ok)
	assert.Equal(t, remote.Trace, trace)

	rendered := fmt.Sprintf("%+v", rebuilt)
	assert.Contains(t, rendered, "no such header")
	assert.Contains(t, rendered, "remote traceback:")
	assert.Contains(t, rendered, trace)
}

func TestTraceOf_plainError(t *testing.T) {
	_, ok := TraceOf(errors.New("local failure"))
	assert.False(t, ok)
}
