package remote

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// OpKind declares how the host schedules an operation: sync calls run inline
// in the connection loop, async calls run in their own goroutine and
// complete out of order.
type OpKind int

const (
	SyncOp OpKind = iota
	AsyncOp
)

// Handler executes one operation against the underlying resource.
type Handler func(args []json.RawMessage) (interface{}, error)

// Capability is a named resource exposed on the endpoint with an explicit
// operation table. One lock serializes every operation on the resource, so
// reads never observe a half-applied write regardless of how many clients
// and async calls are in flight.
type Capability struct {
	name string
	mu   sync.Mutex
	ops  map[string]op
}

type op struct {
	kind    OpKind
	handler Handler
}

// NewCapability creates an empty capability. Operations are attached with
// Sync and Async before the capability is registered on a host.
func NewCapability(name string) *Capability {
	return &Capability{
		name: name,
		ops:  make(map[string]op),
	}
}

// Name returns the resource name clients address.
func (c *Capability) Name() string {
	return c.name
}

// Sync declares a synchronous operation.
func (c *Capability) Sync(method string, h Handler) *Capability {
	c.ops[method] = op{kind: SyncOp, handler: h}
	return c
}

// Async declares an asynchronous operation.
func (c *Capability) Async(method string, h Handler) *Capability {
	c.ops[method] = op{kind: AsyncOp, handler: h}
	return c
}

// kindOf reports how the named operation is scheduled. Unknown methods are
// reported as sync; invoke turns them into an error response.
func (c *Capability) kindOf(method string) OpKind {
	if o, ok := c.ops[method]; ok {
		return o.kind
	}
	return SyncOp
}

// invoke runs one operation under the resource lock and returns either the
// encoded result or the forwarded failure.
func (c *Capability) invoke(method string, args []json.RawMessage) (json.RawMessage, *RemoteError) {
	o, ok := c.ops[method]
	if !ok {
		return nil, Forward(errors.Errorf("resource %q has no method %q", c.name, method))
	}

	c.mu.Lock()
	value, err := o.handler(args)
	c.mu.Unlock()

	if err != nil {
		return nil, Forward(err)
	}
	return mustMarshal(value)
}
