package surface

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	eventsBuf  = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The scene is public demo state; any origin may watch it.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS streams the scene to a websocket client: one snapshot event,
// then every command in order. Client messages are read only to detect close.
func (s *Scene) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed remote=%s err=%v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	snap, events, cancel := s.Subscribe(eventsBuf)
	defer cancel()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.write(conn, Event{Seq: snap.Seq, Type: EventSnapshot, Snapshot: &snap}); err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "scene closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := s.write(conn, ev); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

func (s *Scene) write(conn *websocket.Conn, ev Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(ev); err != nil {
		log.Printf("ws write failed seq=%d type=%s err=%v", ev.Seq, ev.Type, err)
		return err
	}
	return nil
}
