package game

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/pretzelhammer/drawduel2/logger"
)

const (
	// draw ops stream fast while someone sketches; everything else is
	// sparse, so one generous limiter covers both
	readEventsPerSec = 60
	readBurst        = 120

	pingInterval = 5 * time.Second
)

// Session supervises one live connection: it decodes inbound frames into
// the room and relays broadcast bytes back out. It never touches game
// state; the room actor is the only writer.
type Session struct {
	id      PlayerID
	room    *Room
	conn    NetworkSession
	sub     *Subscription
	limiter *rate.Limiter
}

func NewSession(id PlayerID, room *Room, conn NetworkSession, sub *Subscription) *Session {
	return &Session{
		id:      id,
		room:    room,
		conn:    conn,
		sub:     sub,
		limiter: rate.NewLimiter(rate.Limit(readEventsPerSec), readBurst),
	}
}

// ReadPump pulls frames off the socket until it dies. Malformed frames
// and frames over the rate limit are dropped at this boundary; the
// engine only ever sees well-formed client events.
func (s *Session) ReadPump() {
	defer s.room.Disconnect(s.id)
	for {
		data, err := s.conn.Read()
		if err != nil {
			logger.Debugf("player %d read failed: %v", s.id, err)
			return
		}
		if !s.limiter.Allow() {
			continue
		}
		ce, err := DecodeClientEvent(data)
		if err != nil {
			logger.Warningf("player %d sent undecodable event: %v", s.id, err)
			continue
		}
		if err := s.room.Forward(context.Background(), s.id, ce); err != nil {
			return
		}
	}
}

// WritePump relays broadcast batches and keeps the connection alive with
// pings. It exits when the subscription closes (the room dropped us) or
// the socket fails.
func (s *Session) WritePump() {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case data, ok := <-s.sub.Events():
			if !ok {
				s.conn.Close("room-dropped-subscriber")
				return
			}
			if err := s.conn.Write(data); err != nil {
				logger.Debugf("player %d write failed: %v", s.id, err)
				s.room.Disconnect(s.id)
				return
			}
		case <-ping.C:
			if err := s.conn.Ping(); err != nil {
				logger.Debugf("player %d ping failed: %v", s.id, err)
				s.room.Disconnect(s.id)
				return
			}
		}
	}
}
