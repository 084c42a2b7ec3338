package game

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

// feedMsgBuffer bounds how many unread envelopes the reader holds before it
// starts dropping the oldest. Snapshots are superseded every frame anyway.
const feedMsgBuffer = 128

// registerTimeout bounds the one-time controller-slot handshake.
const registerTimeout = 2 * time.Second

// Feed is the websocket link to the match engine. Incoming frames carry
// snapshots; the same socket carries outgoing commands, so Feed is also the
// live CommandSink. A reader goroutine fills a buffered channel that the
// frame loop drains non-blocking.
type Feed struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	inCh   chan protocol.Envelope
	regCh  chan protocol.RegisterControllerResult
	closed bool
}

// DialFeed connects to the engine endpoint.
func DialFeed(wsURL string) (*Feed, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	c, resp, err := dialer.Dial(wsURL, http.Header{})
	if err != nil {
		if resp != nil {
			log.Printf("feed: dial failed: %s", resp.Status)
		} else {
			log.Printf("feed: dial failed: %v", err)
		}
		return nil, err
	}
	f := &Feed{
		conn:  c,
		inCh:  make(chan protocol.Envelope, feedMsgBuffer),
		regCh: make(chan protocol.RegisterControllerResult, 1),
	}
	go f.reader()
	return f, nil
}

func (f *Feed) reader() {
	for {
		f.mu.Lock()
		c := f.conn
		f.mu.Unlock()
		if c == nil {
			return
		}
		_, data, err := c.ReadMessage()
		if err != nil {
			log.Printf("feed: read: %v", err)
			f.mu.Lock()
			f.closed = true
			f.conn = nil
			f.mu.Unlock()
			close(f.inCh)
			return
		}
		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		if env.Type == "register_result" {
			var res protocol.RegisterControllerResult
			if json.Unmarshal(env.Data, &res) == nil {
				select {
				case f.regCh <- res:
				default:
				}
			}
			continue
		}
		// Drop the oldest envelope rather than stalling the reader.
		select {
		case f.inCh <- env:
		default:
			select {
			case <-f.inCh:
			default:
			}
			f.inCh <- env
		}
	}
}

// Poll returns the next pending envelope without blocking.
func (f *Feed) Poll() (protocol.Envelope, bool) {
	select {
	case env, ok := <-f.inCh:
		return env, ok
	default:
		return protocol.Envelope{}, false
	}
}

func (f *Feed) send(typ string, v any) error {
	f.mu.Lock()
	if f.closed || f.conn == nil {
		f.mu.Unlock()
		return errors.New("feed: write on closed socket")
	}
	c := f.conn
	f.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b, _ := json.Marshal(protocol.Envelope{Type: typ, Data: data})
	if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Printf("feed: write: %v", err)
		f.mu.Lock()
		f.closed = true
		f.conn = nil
		f.mu.Unlock()
		return err
	}
	return nil
}

// Send implements CommandSink for the single-agent envelope.
func (f *Feed) Send(cmd protocol.UserCommand) error {
	return f.send("user_command", cmd)
}

// SendRouted implements CommandSink for the controller-routed envelope.
func (f *Feed) SendRouted(cmd protocol.MultiAgentCommand) error {
	return f.send("agent_command", cmd)
}

// Register performs the one-time controller-slot handshake, waiting briefly
// for the engine's reply. Only called at most once per emitter, outside the
// per-frame hot path.
func (f *Feed) Register(reg protocol.RegisterController) (protocol.RegisterControllerResult, error) {
	// Drain any stale reply.
	select {
	case <-f.regCh:
	default:
	}
	if err := f.send("register_controller", reg); err != nil {
		return protocol.RegisterControllerResult{}, err
	}
	select {
	case res := <-f.regCh:
		return res, nil
	case <-time.After(registerTimeout):
		return protocol.RegisterControllerResult{}, errors.New("feed: register timed out")
	}
}

// IsClosed reports whether the socket has been torn down.
func (f *Feed) IsClosed() bool {
	if f == nil {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close shuts the socket down.
func (f *Feed) Close() error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	c := f.conn
	f.conn = nil
	f.mu.Unlock()
	if c != nil {
		return c.Close()
	}
	return nil
}
