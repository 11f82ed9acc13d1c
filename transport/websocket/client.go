package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/codr1/santase-sub001/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 8
)

// Event is the envelope pushed over the realtime channel. The payload is
// always the full snapshot for this viewer, so the latest event is
// authoritative on its own.
type Event struct {
	Type  string           `json:"type"`
	State entity.GameState `json:"state"`
}

// Client is one live websocket connection. It implements usecase.Subscriber:
// the room hands it snapshots, the pumps move them to the wire.
type Client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan entity.GameState

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan entity.GameState, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (that *Client) ID() uuid.UUID {
	return that.id
}

// Deliver - queues a snapshot without ever blocking the room. A full buffer
// means the client cannot keep up; the room will close it and the pumps
// detach it.
func (that *Client) Deliver(state entity.GameState) bool {
	select {
	case <-that.done:
		return false
	case that.send <- state:
		return true
	default:
		return false
	}
}

// Close - signals both pumps to shut the connection down. Safe to call from
// any goroutine, any number of times.
func (that *Client) Close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

// writePump - moves queued snapshots to the wire and keeps the transport
// alive with periodic pings. Pings never count as room activity.
func (that *Client) writePump(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case <-that.done:
			deadline := time.Now().Add(writeWait)
			_ = that.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return

		case state := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteJSON(Event{Type: "game-state", State: state}); err != nil {
				that.Close()
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				that.Close()
				return
			}
		}
	}
}

// readPump - drains the connection until it drops, then detaches from the
// room. Clients send nothing meaningful over the socket; mutations travel
// over HTTP.
func (that *Client) readPump(detach func(uuid.UUID), pingInterval time.Duration) {
	defer func() {
		that.Close()
		detach(that.id)
	}()

	that.conn.SetReadLimit(512)

	wait := pingInterval * 2
	_ = that.conn.SetReadDeadline(time.Now().Add(wait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(wait))
	})

	for {
		if _, _, err := that.conn.ReadMessage(); err != nil {
			return
		}
	}
}
