package gateway

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type outMsg struct {
	kind int
	data []byte
}

// client is one websocket connection. The reader runs on the HTTP handler
// goroutine; writeLoop is the only writer.
type client struct {
	id   uint64
	conn *websocket.Conn
	out  chan outMsg

	closeOnce sync.Once
	done      chan struct{}
	dropped   uint64 // guarded by Server.mu through broadcast
}

func newClient(id uint64, conn *websocket.Conn, queue int) *client {
	return &client{
		id:   id,
		conn: conn,
		out:  make(chan outMsg, queue),
		done: make(chan struct{}),
	}
}

// send queues m without blocking. A droppable message is discarded when the
// outbox is full; anything else means the client cannot keep up and is closed.
func (c *client) send(m outMsg, droppable bool) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.out <- m:
	default:
		if droppable {
			c.dropped++
			if c.dropped == 1 || c.dropped%100 == 0 {
				slog.Debug("dropped message for slow client", "client", c.id, "dropped", c.dropped)
			}
			return
		}
		slog.Warn("client outbox full, disconnecting", "client", c.id)
		c.close()
	}
}

// close stops the writer, which closes the connection on its way out.
func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writeLoop drains the outbox until the client is closed or a write fails.
// Closing the connection on exit unblocks the reader.
func (c *client) writeLoop(timeout time.Duration) {
	defer func() {
		c.close()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case m := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
			if err := c.conn.WriteMessage(m.kind, m.data); err != nil {
				slog.Debug("client write failed", "client", c.id, "error", err)
				return
			}
		}
	}
}
