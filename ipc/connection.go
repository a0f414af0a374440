package ipc

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single engine bridge talking to the core.
// Handlers run on the read loop, so Call may be used from inside a handler:
// nothing else reads the stream while it waits for the reply.
type Connection struct {
	conn     io.ReadWriteCloser
	handlers map[string]Handler
	logger   zerolog.Logger
	Player   string
}

func NewConnection(conn io.ReadWriteCloser, handlers map[string]Handler, logger zerolog.Logger) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
		logger:   logger.With().Str("component", "ipc").Logger(),
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// Send writes a message without waiting for a reply.
func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return WriteEnvelope(c.conn, env)
}

// Call writes a command and blocks for the bridge's command_result.
func (c *Connection) Call(msgType string, data any) (CommandResult, error) {
	if err := c.Send(msgType, data); err != nil {
		return CommandResult{}, fmt.Errorf("send %s: %w", msgType, err)
	}
	env, err := ReadEnvelope(c.conn)
	if err != nil {
		return CommandResult{}, fmt.Errorf("await %s result: %w", msgType, err)
	}
	if env.Type != TypeCommandResult {
		return CommandResult{}, fmt.Errorf("await %s result: unexpected message type %q", msgType, env.Type)
	}
	var res CommandResult
	if err := env.Decode(&res); err != nil {
		return CommandResult{}, err
	}
	return res, nil
}

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			c.logger.Info().Str("player", c.Player).Err(err).Msg("connection read ended")
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			c.logger.Warn().Str("type", env.Type).Msg("no handler for message type")
			continue
		}

		resp, err := handler(env)
		if err != nil {
			c.logger.Error().Str("type", env.Type).Err(err).Msg("handler error")
			continue
		}

		if resp != nil {
			if err := WriteEnvelope(c.conn, *resp); err != nil {
				c.logger.Error().Str("type", resp.Type).Err(err).Msg("failed to send response")
				return
			}
			c.logger.Debug().Str("type", resp.Type).Str("player", c.Player).Msg("sent response")
		}
	}
}
