package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pretzelhammer/drawduel2/logger"
	"github.com/pretzelhammer/drawduel2/metrics"
)

type RoomConfigs struct {
	MaxPlayers  int
	MailboxSize int
	SubBuffer   int
	Timings     Timings
}

func DefaultRoomConfigs() RoomConfigs {
	return RoomConfigs{
		MaxPlayers:  16,
		MailboxSize: 2048,
		SubBuffer:   256,
		Timings:     DefaultTimings(),
	}
}

// RoomDeps are the room's injected collaborators. Zero values fall back
// to the real clock, the real scheduler and a seeded RNG, so production
// callers pass RoomDeps{} and tests substitute fakes.
type RoomDeps struct {
	Clock func() time.Time
	// NewScheduler builds the scheduler around the room's own timer
	// sink; nil means the wall-clock scheduler.
	NewScheduler func(sink func(TimedEvent)) Scheduler
	Rand         *rand.Rand
}

// roomMsg is the single mailbox union. Everything that touches the Game
// arrives here and is handled one message at a time, so the Game needs
// no locks at all.
type roomMsg interface {
	isRoomMsg()
}

type connectRequest struct {
	name  string
	pass  string
	reply chan connectReply
}

type connectReply struct {
	playerID PlayerID
	snapshot []byte
	sub      *Subscription
	err      error
}

type clientEnvelope struct {
	from  PlayerID
	event ClientEvent
}

type disconnectRequest struct {
	playerID PlayerID
}

type timedEnvelope struct {
	tev TimedEvent
}

func (connectRequest) isRoomMsg()    {}
func (clientEnvelope) isRoomMsg()    {}
func (disconnectRequest) isRoomMsg() {}
func (timedEnvelope) isRoomMsg()     {}

// Subscription is one receiver on the room's fan-out. The channel closes
// when the room drops the subscriber (disconnect, slow consumer, reset).
type Subscription struct {
	id PlayerID
	ch chan []byte
}

func (s *Subscription) Events() <-chan []byte {
	return s.ch
}

// Room is the single-writer actor owning one Game, the reconnection
// pass table and the subscriber registry. All access to those goes
// through the mailbox; the actor goroutine is the only writer.
type Room struct {
	cfg       RoomConfigs
	engine    *Engine
	passes    map[string]PlayerID
	nextID    PlayerID
	subs      map[PlayerID]*Subscription
	mailbox   chan roomMsg
	scheduler Scheduler
	clock     func() time.Time
	rng       *rand.Rand
	done      chan struct{}
}

func NewRoom(cfg RoomConfigs, deps RoomDeps) *Room {
	r := &Room{
		cfg:     cfg,
		engine:  NewEngine(NewGame(), cfg.Timings, DefaultCatalog()),
		passes:  make(map[string]PlayerID),
		subs:    make(map[PlayerID]*Subscription),
		mailbox: make(chan roomMsg, cfg.MailboxSize),
		clock:   deps.Clock,
		rng:     deps.Rand,
		done:    make(chan struct{}),
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if deps.NewScheduler != nil {
		r.scheduler = deps.NewScheduler(r.deliverTimed)
	} else {
		r.scheduler = NewClockScheduler(r.clock, r.deliverTimed)
	}
	return r
}

// Run is the actor loop. Start it once, on its own goroutine.
func (r *Room) Run() {
	for {
		select {
		case <-r.done:
			return
		case msg := <-r.mailbox:
			switch m := msg.(type) {
			case connectRequest:
				r.handleConnect(m)
			case clientEnvelope:
				r.handleClientEvent(m)
			case disconnectRequest:
				r.handleDisconnect(m)
			case timedEnvelope:
				r.handleTimed(m)
			}
		}
	}
}

func (r *Room) Stop() {
	close(r.done)
}

// Connect registers a caller with the room. A known pass is a reconnect
// and keeps its PlayerID; an unknown pass allocates the next one. The
// reply always carries a full-state snapshot serialized for this caller
// alone, plus the broadcast subscription.
func (r *Room) Connect(ctx context.Context, name, pass string) (PlayerID, []byte, *Subscription, error) {
	req := connectRequest{name: name, pass: pass, reply: make(chan connectReply, 1)}
	select {
	case r.mailbox <- req:
	case <-r.done:
		return 0, nil, nil, ErrRoomClosed
	case <-ctx.Done():
		return 0, nil, nil, ctx.Err()
	}
	select {
	case rep := <-req.reply:
		return rep.playerID, rep.snapshot, rep.sub, rep.err
	case <-ctx.Done():
		// the actor may still register us; undo on its own timeline
		go func() {
			select {
			case rep := <-req.reply:
				if rep.err == nil {
					r.Disconnect(rep.playerID)
				}
			case <-r.done:
			}
		}()
		return 0, nil, nil, ctx.Err()
	}
}

// Forward queues a decoded client event under the authenticated sender.
func (r *Room) Forward(ctx context.Context, from PlayerID, ce ClientEvent) error {
	select {
	case r.mailbox <- clientEnvelope{from: from, event: ce}:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Room) Disconnect(playerID PlayerID) {
	select {
	case r.mailbox <- disconnectRequest{playerID: playerID}:
	case <-r.done:
	}
}

func (r *Room) deliverTimed(tev TimedEvent) {
	select {
	case r.mailbox <- timedEnvelope{tev: tev}:
	case <-r.done:
	}
}

func (r *Room) now() int64 {
	return r.clock().UnixMilli()
}

func (r *Room) handleConnect(m connectRequest) {
	if id, known := r.passes[m.pass]; known {
		r.handleReconnect(m, id)
		return
	}

	if len(r.engine.Game.Players) >= r.cfg.MaxPlayers {
		metrics.RegistrationErrors.WithLabelValues("full-game").Inc()
		m.reply <- connectReply{err: ErrFullGame}
		return
	}

	id := r.nextID
	r.nextID++
	name := m.name
	if name == "" {
		name = fmt.Sprintf("player%02d", id)
	}

	now := r.now()
	events, timers, err := r.engine.Advance(SePlayerJoin{ID: id, Name: name}, now)
	if err != nil {
		r.fatal(err)
		m.reply <- connectReply{err: err}
		return
	}
	r.passes[m.pass] = id

	// others learn about the join as a delta; the joiner gets the whole
	// state directly, so onboarding cost never grows with game history
	r.broadcast(events)
	r.scheduleAll(timers)
	r.maybeStartRound(now)

	sub := r.subscribe(id)
	snapshot, err := r.snapshot(id)
	if err != nil {
		r.fatal(err)
		m.reply <- connectReply{err: err}
		return
	}
	logger.Infof("player %d (%s) joined", id, name)
	metrics.Connections.Inc()
	m.reply <- connectReply{playerID: id, snapshot: snapshot, sub: sub}
}

func (r *Room) handleReconnect(m connectRequest, id PlayerID) {
	if _, live := r.subs[id]; live {
		metrics.RegistrationErrors.WithLabelValues("already-connected").Inc()
		m.reply <- connectReply{err: ErrAlreadyConnected}
		return
	}

	events, timers, err := r.engine.Advance(SePlayerConnect{ID: id}, r.now())
	if err != nil {
		r.fatal(err)
		m.reply <- connectReply{err: err}
		return
	}
	r.broadcast(events)
	r.scheduleAll(timers)

	sub := r.subscribe(id)
	snapshot, err := r.snapshot(id)
	if err != nil {
		r.fatal(err)
		m.reply <- connectReply{err: err}
		return
	}
	logger.Infof("player %d reconnected", id)
	metrics.Connections.Inc()
	m.reply <- connectReply{playerID: id, snapshot: snapshot, sub: sub}
}

func (r *Room) handleClientEvent(m clientEnvelope) {
	ev := FromClient(m.from, m.event)
	if ev == nil {
		return
	}
	metrics.ClientEvents.Inc()
	events, timers, err := r.engine.Advance(ev, r.now())
	if err != nil {
		r.fatal(err)
		return
	}
	r.broadcast(events)
	r.scheduleAll(timers)
}

func (r *Room) handleDisconnect(m disconnectRequest) {
	if sub, ok := r.subs[m.playerID]; ok {
		delete(r.subs, m.playerID)
		close(sub.ch)
	}

	events, timers, err := r.engine.Advance(SePlayerDisconnect{ID: m.playerID}, r.now())
	if err != nil {
		r.fatal(err)
		return
	}
	r.broadcast(events)
	r.scheduleAll(timers)
	logger.Infof("player %d disconnected", m.playerID)

	if len(r.subs) == 0 {
		// everyone is gone; a single-room deployment resets in place
		r.reset()
	}
}

func (r *Room) handleTimed(m timedEnvelope) {
	now := r.now()
	events, timers := r.engine.TimedAdvance(m.tev, now)
	r.broadcast(events)
	r.scheduleAll(timers)

	// a finished round rolls over into the next one while enough
	// players are still around to play it
	if m.tev.Type == TimedPostPlayOver && len(events) > 0 &&
		r.engine.Game.ConnectedPlayers() >= 2 {
		r.startRound(now)
	}
}

// maybeStartRound starts the first round of a game once a second player
// is connected.
func (r *Room) maybeStartRound(now int64) {
	if r.engine.Game.Round == nil && r.engine.Game.ConnectedPlayers() >= 2 {
		r.startRound(now)
	}
}

func (r *Room) startRound(now int64) {
	g := r.engine.Game
	roundID := uint32(1)
	if g.Round != nil {
		roundID = g.Round.RoundID + 1
	}
	easy, hard := r.engine.Words.RandomPair(r.rng)
	ev := SeNewRound{
		RoundID:     roundID,
		Drawer:      r.nextDrawer(),
		EasyWord:    easy,
		HardWord:    hard,
		PhaseEndsAt: now + r.cfg.Timings.ChooseWord.Milliseconds(),
	}
	events, timers, err := r.engine.Advance(ev, now)
	if err != nil {
		r.fatal(err)
		return
	}
	logger.Infof("round %d started, drawer %d", roundID, ev.Drawer)
	r.broadcast(events)
	r.scheduleAll(timers)
}

// nextDrawer rotates the drawer over connected players in ascending id
// order, starting after the previous round's drawer.
func (r *Room) nextDrawer() PlayerID {
	g := r.engine.Game
	var first, next *PlayerID
	for id, p := range g.Players {
		if !p.Connected {
			continue
		}
		if first == nil || id < *first {
			first = &id
		}
		if g.Round != nil && id > g.Round.Drawer && (next == nil || id < *next) {
			next = &id
		}
	}
	if next != nil {
		return *next
	}
	if first != nil {
		return *first
	}
	return 0
}

func (r *Room) subscribe(id PlayerID) *Subscription {
	sub := &Subscription{id: id, ch: make(chan []byte, r.cfg.SubBuffer)}
	r.subs[id] = sub
	return sub
}

// snapshot serializes a SetGame addressed to one caller. Serialization
// happens inside the actor, so no copy of the Game is needed.
func (r *Room) snapshot(id PlayerID) ([]byte, error) {
	return EncodeServerEvents([]ServerEvent{
		SeSetGame{PlayerID: id, Game: r.engine.Game},
	})
}

// broadcast fans one serialized batch out to every subscriber. A
// receiver whose buffer is full is dropped on the spot; it heals itself
// with a fresh reconnect snapshot, never with gap-filling.
func (r *Room) broadcast(events []ServerEvent) {
	if len(events) == 0 || len(r.subs) == 0 {
		return
	}
	data, err := EncodeServerEvents(events)
	if err != nil {
		r.fatal(err)
		return
	}
	metrics.BroadcastBatches.Inc()
	for id, sub := range r.subs {
		select {
		case sub.ch <- data:
		default:
			logger.Warningf("dropping slow subscriber %d", id)
			delete(r.subs, id)
			close(sub.ch)
		}
	}
}

func (r *Room) scheduleAll(timers []TimedEvent) {
	for _, tev := range timers {
		r.scheduler.Schedule(tev)
	}
}

// fatal handles an invariant violation: the room resets, everything else
// in the process keeps running.
func (r *Room) fatal(err error) {
	logger.Criticalf("room invariant violated, resetting: %v", err)
	r.reset()
}

func (r *Room) reset() {
	for _, sub := range r.subs {
		close(sub.ch)
	}
	r.subs = make(map[PlayerID]*Subscription)
	r.passes = make(map[string]PlayerID)
	r.engine.Game = NewGame()
	metrics.RoomResets.Inc()
	logger.Infof("room reset")
}
