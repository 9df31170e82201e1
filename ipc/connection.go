package ipc

import (
	"log/slog"
	"net"
	"sync"
)

// Handler answers one request. A nil envelope sends nothing back, which
// lets a handler write its reply itself before pushing follow-up messages.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single presentation client. The read loop and any
// background sender share the socket; writes are serialized.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	wmu      sync.Mutex
	done     chan struct{}
	Player   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
		done:     make(chan struct{}),
	}
}

// RegisterHandler must be called before ReadLoop starts.
func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// Send pushes an unsolicited message. Safe to call from any goroutine.
func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

// Done is closed when the read loop exits.
func (c *Connection) Done() <-chan struct{} { return c.done }

func (c *Connection) write(env Envelope) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// ReadLoop serves requests until the peer hangs up or Close is called. It
// closes the socket on exit and then Done.
func (c *Connection) ReadLoop() {
	defer close(c.done)
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "player", c.Player, "error", err)
			return
		}
		if err := c.dispatch(env); err != nil {
			slog.Error("failed to write reply", "request", env.Type, "player", c.Player, "error", err)
			return
		}
	}
}

// dispatch runs the handler for env and writes its reply. A handler error is
// reported to the peer as an error envelope; only write failures are returned.
func (c *Connection) dispatch(env Envelope) error {
	handler, ok := c.handlers[env.Type]
	if !ok {
		slog.Warn("no handler for message type", "type", env.Type)
		return nil
	}

	resp, err := handler(env)
	switch {
	case err != nil:
		slog.Warn("request failed", "type", env.Type, "player", c.Player, "error", err)
		return c.Send(TypeError, ErrorMessage{Request: env.Type, Message: err.Error()})
	case resp == nil:
		return nil
	}
	if err := c.write(*resp); err != nil {
		return err
	}
	slog.Debug("sent response", "type", resp.Type, "player", c.Player)
	return nil
}

// Close shuts the socket; the read loop exits on its next read.
func (c *Connection) Close() error { return c.conn.Close() }
