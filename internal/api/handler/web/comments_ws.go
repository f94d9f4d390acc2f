package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/voyage-tours/voyage/internal/domain"
	"github.com/voyage-tours/voyage/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	subscriberSend = 16
)

// subscriber is one websocket watching the comments of one tour.
type subscriber struct {
	tourID uint
	conn   *websocket.Conn
	send   chan []byte
}

type subscription struct {
	sub  *subscriber
	done chan struct{}
}

// CommentHub pushes new comments to the websocket clients watching a tour.
// All subscriber bookkeeping happens on the Run goroutine; a client whose
// buffer is full is dropped.
type CommentHub struct {
	upgrader   websocket.Upgrader
	register   chan subscription
	unregister chan *subscriber
	broadcast  chan domain.Comment
	stopped    chan struct{}
	tours      map[uint]map[*subscriber]struct{}
}

func NewCommentHub() *CommentHub {
	return &CommentHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		register:   make(chan subscription),
		unregister: make(chan *subscriber),
		broadcast:  make(chan domain.Comment, 64),
		stopped:    make(chan struct{}),
		tours:      make(map[uint]map[*subscriber]struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *CommentHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.stopped)
			for _, subs := range h.tours {
				for sub := range subs {
					h.drop(sub)
				}
			}
			return
		case s := <-h.register:
			subs, ok := h.tours[s.sub.tourID]
			if !ok {
				subs = make(map[*subscriber]struct{})
				h.tours[s.sub.tourID] = subs
			}
			subs[s.sub] = struct{}{}
			metrics.CommentSubscribers.Inc()
			close(s.done)
		case sub := <-h.unregister:
			h.drop(sub)
		case comment := <-h.broadcast:
			msg, err := json.Marshal(comment)
			if err != nil {
				zap.L().Error("failed to encode comment", zap.Uint("comment_id", comment.ID), zap.Error(err))
				continue
			}
			for sub := range h.tours[comment.TourID] {
				select {
				case sub.send <- msg:
				default:
					h.drop(sub)
				}
			}
		}
	}
}

func (h *CommentHub) drop(sub *subscriber) {
	subs, ok := h.tours[sub.tourID]
	if !ok {
		return
	}
	if _, ok = subs[sub]; !ok {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.tours, sub.tourID)
	}
	close(sub.send)
	metrics.CommentSubscribers.Dec()
}

// Publish queues comment for delivery. It never blocks the caller; when the
// queue is full the comment is only visible after a reload.
func (h *CommentHub) Publish(comment domain.Comment) {
	select {
	case h.broadcast <- comment:
	default:
		zap.L().Warn("comment hub queue full, dropping live update", zap.Uint("tour_id", comment.TourID))
	}
}

// HandleComments upgrades the request and streams the tour's new comments
// as JSON text messages.
func (h *CommentHub) HandleComments(ctx *gin.Context) {
	id, ok := tourID(ctx)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{
		tourID: id,
		conn:   conn,
		send:   make(chan []byte, subscriberSend),
	}

	s := subscription{sub: sub, done: make(chan struct{})}
	select {
	case h.register <- s:
		<-s.done
	case <-h.stopped:
		conn.Close()
		return
	case <-ctx.Request.Context().Done():
		conn.Close()
		return
	}

	go sub.writePump()
	sub.readPump(h)
}

// readPump only watches for the client going away; clients never send.
func (s *subscriber) readPump(h *CommentHub) {
	defer func() {
		select {
		case h.unregister <- s:
		case <-h.stopped:
		}
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("comment subscriber closed", zap.Uint("tour_id", s.tourID), zap.Error(err))
			}
			return
		}
	}
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
