package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HostState tracks the host lifecycle. Transitions only move forward:
// Unregistered → Registered → Listening → Stopped. A stopped host is never
// restarted; the process builds a new one.
type HostState int

const (
	StateUnregistered HostState = iota
	StateRegistered
	StateListening
	StateStopped
)

func (s HostState) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateRegistered:
		return "registered"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// AddressInUseError reports that another live host already serves the
// endpoint address.
type AddressInUseError struct {
	Addr string
}

func (e *AddressInUseError) Error() string {
	return fmt.Sprintf("endpoint address already in use: %s", e.Addr)
}

// Host owns a unix-socket endpoint and serves registered capabilities over
// it. One host serves many client connections; per-capability locks keep
// the shared resources consistent.
type Host struct {
	addr string
	log  logrus.FieldLogger

	mu    sync.Mutex
	state HostState
	caps  map[string]*Capability
	ln    net.Listener

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewHost creates a host bound to nothing yet. Capabilities are attached
// with Register, then Start binds the endpoint.
func NewHost(addr string) *Host {
	return &Host{
		addr:  addr,
		log:   logrus.WithField("endpoint", addr),
		state: StateUnregistered,
		caps:  make(map[string]*Capability),
		conns: make(map[net.Conn]struct{}),
		quit:  make(chan struct{}),
	}
}

// Addr returns the endpoint address the host serves.
func (h *Host) Addr() string {
	return h.addr
}

// State returns the current lifecycle state.
func (h *Host) State() HostState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Register attaches a capability. Registration is only allowed before the
// host starts listening; the capability table is immutable afterwards.
func (h *Host) Register(c *Capability) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateUnregistered && h.state != StateRegistered {
		return errors.Errorf("cannot register resources on a %s host", h.state)
	}
	if _, dup := h.caps[c.Name()]; dup {
		return errors.Errorf("resource %q already registered", c.Name())
	}
	h.caps[c.Name()] = c
	h.state = StateRegistered
	return nil
}

// Start binds the endpoint and begins serving. A socket file claimed by a
// live host fails with an AddressInUseError; a stale file left by a crashed
// host is removed and the address reclaimed.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateRegistered {
		return errors.Errorf("cannot start a %s host", h.state)
	}

	ln, err := listenUnix(h.addr)
	if err != nil {
		return err
	}
	h.ln = ln
	h.state = StateListening

	h.wg.Add(1)
	go h.acceptLoop(ln)

	h.log.WithField("resources", len(h.caps)).Info("object host listening")
	return nil
}

func listenUnix(addr string) (net.Listener, error) {
	if _, err := os.Stat(addr); err == nil {
		// A socket file already exists. A live host answers a dial; a file
		// left by a crashed host does not and is safe to remove.
		if conn, err := net.Dial("unix", addr); err == nil {
			conn.Close()
			return nil, &AddressInUseError{Addr: addr}
		}
		os.Remove(addr)
	}

	ln, err := net.Listen("unix", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return nil, &AddressInUseError{Addr: addr}
		}
		return nil, errors.Wrapf(err, "bind endpoint %s", addr)
	}
	return ln, nil
}

func (h *Host) acceptLoop(ln net.Listener) {
	defer h.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-h.quit:
			default:
				h.log.WithError(err).Warn("endpoint accept failed")
			}
			return
		}
		h.trackConn(conn, true)
		h.wg.Add(1)
		go h.serveConn(conn)
	}
}

func (h *Host) trackConn(conn net.Conn, add bool) {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()
	if add {
		h.conns[conn] = struct{}{}
	} else {
		delete(h.conns, conn)
	}
}

// serveConn runs one client connection: sync calls complete inline and in
// order, async calls run in their own goroutines and complete whenever they
// finish. A write lock keeps interleaved results well-formed.
func (h *Host) serveConn(conn net.Conn) {
	defer h.wg.Done()
	defer h.trackConn(conn, false)
	defer conn.Close()

	log := h.log.WithField("client", fmt.Sprintf("%p", conn))
	log.Debug("client connected")

	enc := json.NewEncoder(conn)
	var writeMu sync.Mutex
	respond := func(res *ResultEnvelope) {
		writeMu.Lock()
		err := enc.Encode(res)
		writeMu.Unlock()
		if err != nil {
			// The operation already completed against the resource; only
			// the notification is lost with the connection.
			log.WithError(err).Debug("dropped result for gone client")
		}
	}

	dec := json.NewDecoder(conn)
	for {
		var call CallEnvelope
		if err := dec.Decode(&call); err != nil {
			if err != io.EOF {
				select {
				case <-h.quit:
				default:
					log.WithError(err).Debug("client read failed")
				}
			}
			log.Debug("client disconnected")
			return
		}

		resource, ok := h.caps[call.Resource]
		if !ok {
			respond(&ResultEnvelope{
				ID:  call.ID,
				Err: Forward(errors.Errorf("unknown resource %q", call.Resource)),
			})
			continue
		}

		if resource.kindOf(call.Method) == AsyncOp {
			h.wg.Add(1)
			go func(call CallEnvelope) {
				defer h.wg.Done()
				value, rerr := resource.invoke(call.Method, call.Args)
				respond(&ResultEnvelope{ID: call.ID, Value: value, Err: rerr})
			}(call)
			continue
		}

		value, rerr := resource.invoke(call.Method, call.Args)
		respond(&ResultEnvelope{ID: call.ID, Value: value, Err: rerr})
	}
}

// Shutdown stops the host: the listener closes, active connections are torn
// down, in-flight operations run to completion, and the socket file is
// removed. The host ends in the terminal Stopped state and the address is
// free to rebind.
func (h *Host) Shutdown() error {
	h.mu.Lock()
	if h.state != StateListening {
		state := h.state
		h.mu.Unlock()
		return errors.Errorf("cannot shut down a %s host", state)
	}
	h.state = StateStopped
	close(h.quit)
	h.ln.Close()
	h.mu.Unlock()

	h.connsMu.Lock()
	for conn := range h.conns {
		conn.Close()
	}
	h.connsMu.Unlock()

	h.wg.Wait()
	os.Remove(h.addr)

	h.log.Info("object host stopped")
	return nil
}
