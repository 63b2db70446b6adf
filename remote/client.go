package remote

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Conn is a client connection to an object host. One reader goroutine
// matches responses to callers by correlation id, so a single connection
// carries any number of overlapping sync and async calls.
type Conn struct {
	conn net.Conn
	log  logrus.FieldLogger

	encMu sync.Mutex
	enc   *json.Encoder

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan *ResultEnvelope

	closed  chan struct{}
	readErr error
	once    sync.Once
}

// Dial connects to an object host endpoint.
func Dial(addr string) (*Conn, error) {
	raw, err := net.Dial("unix", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial endpoint %s", addr)
	}
	c := &Conn{
		conn:    raw,
		log:     logrus.WithField("endpoint", addr),
		enc:     json.NewEncoder(raw),
		pending: make(map[uint64]chan *ResultEnvelope),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Conn) readLoop() {
	dec := json.NewDecoder(c.conn)
	for {
		var res ResultEnvelope
		if err := dec.Decode(&res); err != nil {
			c.fail(errors.Wrap(err, "endpoint connection lost"))
			return
		}
		c.mu.Lock()
		ch := c.pending[res.ID]
		delete(c.pending, res.ID)
		c.mu.Unlock()
		if ch == nil {
			c.log.WithField("id", res.ID).Debug("dropped result with unknown correlation id")
			continue
		}
		ch <- &res
	}
}

// fail marks the connection dead. Waiters observe the closed channel; the
// read error is set before it closes.
func (c *Conn) fail(err error) {
	c.once.Do(func() {
		c.readErr = err
		close(c.closed)
	})
}

// Close tears down the connection. Pending calls fail.
func (c *Conn) Close() error {
	c.fail(errors.New("connection closed"))
	return c.conn.Close()
}

// Pending is an in-flight call. Wait blocks until the host delivers the
// result or the connection dies.
type Pending struct {
	conn *Conn
	ch   chan *ResultEnvelope
}

// Wait returns the raw result value, rebuilding any forwarded error into
// its original kind.
func (p *Pending) Wait() (json.RawMessage, error) {
	select {
	case res := <-p.ch:
		if res.Err != nil {
			return nil, res.Err.Rebuild()
		}
		return res.Value, nil
	case <-p.conn.closed:
		return nil, p.conn.readErr
	}
}

// Go issues a call and returns a handle for its result. Argument values
// must be JSON-encodable; binary payloads go through hexutil.Bytes.
func (c *Conn) Go(resource, method string, async bool, args ...interface{}) (*Pending, error) {
	rawArgs := make([]json.RawMessage, len(args))
	for i, arg := range args {
		raw, err := json.Marshal(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "encode argument %d", i)
		}
		rawArgs[i] = raw
	}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	ch := make(chan *ResultEnvelope, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	env := &CallEnvelope{
		ID:       id,
		Resource: resource,
		Method:   method,
		Async:    async,
		Args:     rawArgs,
	}
	c.encMu.Lock()
	err := c.enc.Encode(env)
	c.encMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, errors.Wrap(err, "send call")
	}

	return &Pending{conn: c, ch: ch}, nil
}

// Call issues a sync call and waits for its result.
func (c *Conn) Call(resource, method string, args ...interface{}) (json.RawMessage, error) {
	p, err := c.Go(resource, method, false, args...)
	if err != nil {
		return nil, err
	}
	return p.Wait()
}
