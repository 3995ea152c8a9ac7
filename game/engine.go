package game

import (
	"fmt"
	"time"
)

// Player state inside a Game. Scores only ever increase within a round;
// NewRound and room resets are the only things that zero them.
type Player struct {
	Name       string `json:"name"`
	RoundScore uint32 `json:"round_score"`
	DrawScore  uint32 `json:"draw_score"`
	GuessScore uint32 `json:"guess_score"`
	Connected  bool   `json:"connected"`
}

type Guess struct {
	Guesser PlayerID `json:"guesser"`
	Correct bool     `json:"correct"`
	// Text holds the raw guess for incorrect guesses. Cleared for
	// correct ones so the snapshot never spells the word out twice.
	Text         string `json:"text,omitempty"`
	AfterDrawOps uint32 `json:"after_draw_ops"`
}

type Hint struct {
	Index  uint32 `json:"index"`
	Letter string `json:"letter"`
}

type Round struct {
	RoundID uint32   `json:"round_id"`
	Phase   Phase    `json:"phase"`
	Drawer  PlayerID `json:"drawer"`
	DrawOps []DrawOp `json:"draw_ops"`
	// Indices into the word catalog. Guessers only ever see indices;
	// the text is resolved locally from the embedded catalog.
	EasyWord   uint32     `json:"easy_word"`
	HardWord   uint32     `json:"hard_word"`
	WordChoice WordChoice `json:"word_choice"`
	DrawScore  uint32     `json:"draw_score"`
	GuessScore uint32     `json:"guess_score"`
	Guesses    []Guess    `json:"guesses"`
	Hints      []Hint     `json:"hints"`
	// PhaseEndsAt is an epoch-millisecond deadline, 0 when unset.
	PhaseEndsAt int64 `json:"phase_ends_at"`
}

// Game is the root aggregate. One per room, mutated only by the engine.
type Game struct {
	Players map[PlayerID]*Player `json:"players"`
	Round   *Round               `json:"round,omitempty"`
}

func NewGame() *Game {
	return &Game{Players: make(map[PlayerID]*Player)}
}

func (g *Game) ConnectedPlayers() int {
	n := 0
	for _, p := range g.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// Empty reports whether nobody is connected.
func (g *Game) Empty() bool {
	return g.ConnectedPlayers() == 0
}

// Timings holds the phase durations and timer offsets the engine bakes
// into deadlines. Both sides of a replicated game must run with the
// same values.
type Timings struct {
	ChooseWord     time.Duration
	PrePlay        time.Duration
	PlayEasy       time.Duration
	PlayHard       time.Duration
	PostPlay       time.Duration
	HintInterval   time.Duration
	InactiveDrawer time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		ChooseWord:     30 * time.Second,
		PrePlay:        5 * time.Second,
		PlayEasy:       90 * time.Second,
		PlayHard:       120 * time.Second,
		PostPlay:       15 * time.Second,
		HintInterval:   30 * time.Second,
		InactiveDrawer: 20 * time.Second,
	}
}

func (t Timings) play(choice WordChoice) time.Duration {
	if choice == WordHard {
		return t.PlayHard
	}
	return t.PlayEasy
}

const (
	firstCorrectBonus = 10
	scoreBase         = 120
	easyMultiplier    = 2
	hardMultiplier    = 3
)

// Engine is the deterministic state machine. Given the same Game, the
// same event and the same clock reading it always produces the same new
// Game and the same outbound events, whether it runs on the server or
// inside a predicting client.
type Engine struct {
	Game    *Game
	Timings Timings
	Words   *Catalog
}

func NewEngine(g *Game, t Timings, w *Catalog) *Engine {
	return &Engine{Game: g, Timings: t, Words: w}
}

// Advance applies one server event at time now (epoch millis) and
// returns the outbound events to broadcast plus any timers to schedule.
// Events referencing unknown players, wrong phases or wrong senders are
// silently absorbed: no mutation, no output. The only error it can
// return is an invariant violation, which the caller must treat as fatal
// for the room.
func (e *Engine) Advance(ev ServerEvent, now int64) ([]ServerEvent, []TimedEvent, error) {
	g := e.Game
	switch ev := ev.(type) {
	case SePlayerJoin:
		if _, taken := g.Players[ev.ID]; taken {
			return nil, nil, fmt.Errorf("%w: join for taken player id %d", ErrInvariant, ev.ID)
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SePlayerLeave:
		if _, ok := g.Players[ev.ID]; !ok {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SePlayerConnect:
		p, ok := g.Players[ev.ID]
		if !ok || p.Connected {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SePlayerDisconnect:
		p, ok := g.Players[ev.ID]
		if !ok || !p.Connected {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SePlayerRename:
		if _, ok := g.Players[ev.ID]; !ok {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SePlayerIncRoundScore:
		if _, ok := g.Players[ev.ID]; !ok {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SeRoundIncDrawScore:
		if _, ok := g.Players[ev.ID]; !ok {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SeRoundIncGuessScore:
		if _, ok := g.Players[ev.ID]; !ok {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SePlayerDrawOp:
		r := g.Round
		if r == nil || r.Phase != PhasePlay || r.Drawer != ev.ID {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SePlayerChooseWord:
		r := g.Round
		if r == nil || r.Phase != PhaseChooseWord || r.Drawer != ev.Drawer {
			return nil, nil, nil
		}
		e.Apply(ev)
		change, timers := e.changePhase(PhasePrePlay, now)
		return []ServerEvent{ev, change}, timers, nil

	case SePlayerGuessWord:
		return e.advanceGuess(ev, now)

	case SePlayerLikeRound:
		// no state, pass through so everyone sees the like
		return []ServerEvent{ev}, nil, nil

	case SeNewRound:
		if g.Round != nil && g.Round.RoundID == ev.RoundID {
			return nil, nil, nil
		}
		e.Apply(ev)
		timer := TimedEvent{
			RoundID: ev.RoundID,
			Phase:   PhaseChooseWord,
			Type:    TimedChooseWordOver,
			At:      ev.PhaseEndsAt,
		}
		return []ServerEvent{ev}, []TimedEvent{timer}, nil

	case SeRoundChangePhase:
		// out-of-band resync path; the engine normally emits these
		// itself from inside other handlers
		r := g.Round
		if r == nil || r.RoundID != ev.RoundID {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, e.timersFor(ev, now), nil

	case SeRoundHint:
		r := g.Round
		if r == nil || r.RoundID != ev.RoundID {
			return nil, nil, nil
		}
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SeSetGame:
		e.Apply(ev)
		return []ServerEvent{ev}, nil, nil

	case SeError:
		// schema slot for relaying notices, never a state transition
		return nil, nil, nil
	}
	return nil, nil, nil
}

func (e *Engine) advanceGuess(ev SePlayerGuessWord, now int64) ([]ServerEvent, []TimedEvent, error) {
	g := e.Game
	r := g.Round
	if r == nil || r.Phase != PhasePlay || r.Drawer == ev.Guesser {
		return nil, nil, nil
	}
	if _, ok := g.Players[ev.Guesser]; !ok {
		return nil, nil, nil
	}

	correct := ev.Guess == e.Words.Word(r.WordChoice, r.EasyWord, r.HardWord)
	first := r.GuessScore == 0

	e.Apply(ev)
	out := []ServerEvent{ev}
	if !correct {
		return out, nil, nil
	}

	inc := e.guessScore(r, first, now)
	guesserInc := SeRoundIncGuessScore{ID: ev.Guesser, By: inc}
	e.Apply(guesserInc)
	guesserRound := SePlayerIncRoundScore{ID: ev.Guesser, By: inc}
	e.Apply(guesserRound)
	out = append(out, guesserInc, guesserRound)

	// the drawer earns the same delta once, on the first correct guess
	if first {
		drawerInc := SeRoundIncDrawScore{ID: r.Drawer, By: inc}
		e.Apply(drawerInc)
		drawerRound := SePlayerIncRoundScore{ID: r.Drawer, By: inc}
		e.Apply(drawerRound)
		out = append(out, drawerInc, drawerRound)
	}

	if e.allConnectedScored() {
		change, timers := e.changePhase(PhasePostPlay, now)
		return append(out, change), timers, nil
	}
	return out, nil, nil
}

// guessScore computes the delta for one correct guess. The subtraction
// can go negative on long rounds with many hints; it clamps at zero
// instead of wrapping.
func (e *Engine) guessScore(r *Round, first bool, now int64) uint32 {
	bonus := int64(0)
	if first {
		bonus = firstCorrectBonus
	}
	phaseStartedAt := r.PhaseEndsAt - e.Timings.play(r.WordChoice).Milliseconds()
	secsElapsed := (now - phaseStartedAt) / 1000
	if secsElapsed < 0 {
		secsElapsed = 0
	}
	mult := int64(easyMultiplier)
	if r.WordChoice == WordHard {
		mult = hardMultiplier
	}
	inc := (bonus + scoreBase - (secsElapsed + int64(len(r.Hints)))) * mult
	if inc < 0 {
		inc = 0
	}
	return uint32(inc)
}

func (e *Engine) allConnectedScored() bool {
	for _, p := range e.Game.Players {
		if p.Connected && p.RoundScore == 0 {
			return false
		}
	}
	return true
}

// changePhase applies and returns the phase transition for the current
// round, along with the timers that drive the next transition.
func (e *Engine) changePhase(to Phase, now int64) (SeRoundChangePhase, []TimedEvent) {
	r := e.Game.Round
	var d time.Duration
	switch to {
	case PhaseChooseWord:
		d = e.Timings.ChooseWord
	case PhasePrePlay:
		d = e.Timings.PrePlay
	case PhasePlay:
		d = e.Timings.play(r.WordChoice)
	case PhasePostPlay:
		d = e.Timings.PostPlay
	}
	change := SeRoundChangePhase{
		RoundID:     r.RoundID,
		Phase:       to,
		PhaseEndsAt: now + d.Milliseconds(),
	}
	e.Apply(change)
	return change, e.timersFor(change, now)
}

// timersFor derives the scheduler tokens for an already-applied phase
// change. Each token carries the round and phase it was issued for;
// TimedAdvance drops it if either has moved on, which is the sole
// cancellation mechanism.
func (e *Engine) timersFor(change SeRoundChangePhase, now int64) []TimedEvent {
	switch change.Phase {
	case PhaseChooseWord:
		return []TimedEvent{{
			RoundID: change.RoundID, Phase: PhaseChooseWord,
			Type: TimedChooseWordOver, At: change.PhaseEndsAt,
		}}
	case PhasePrePlay:
		return []TimedEvent{{
			RoundID: change.RoundID, Phase: PhasePrePlay,
			Type: TimedPrePlayOver, At: change.PhaseEndsAt,
		}}
	case PhasePlay:
		return []TimedEvent{
			{
				RoundID: change.RoundID, Phase: PhasePlay,
				Type: TimedPlayOver, At: change.PhaseEndsAt,
			},
			{
				RoundID: change.RoundID, Phase: PhasePlay,
				Type: TimedGiveHint, At: now + e.Timings.HintInterval.Milliseconds(),
			},
			{
				RoundID: change.RoundID, Phase: PhasePlay,
				Type: TimedInactiveDrawer, At: now + e.Timings.InactiveDrawer.Milliseconds(),
			},
		}
	case PhasePostPlay:
		return []TimedEvent{{
			RoundID: change.RoundID, Phase: PhasePostPlay,
			Type: TimedPostPlayOver, At: change.PhaseEndsAt,
		}}
	}
	return nil
}

// TimedAdvance handles a fired timer token. A token whose round or phase
// no longer matches the live round is stale and produces nothing.
func (e *Engine) TimedAdvance(tev TimedEvent, now int64) ([]ServerEvent, []TimedEvent) {
	r := e.Game.Round
	if r == nil || r.RoundID != tev.RoundID || r.Phase != tev.Phase {
		return nil, nil
	}
	switch tev.Type {
	case TimedChooseWordOver:
		// drawer never picked; keep the round moving with the default
		// easy word
		change, timers := e.changePhase(PhasePrePlay, now)
		return []ServerEvent{change}, timers

	case TimedPrePlayOver:
		change, timers := e.changePhase(PhasePlay, now)
		return []ServerEvent{change}, timers

	case TimedPlayOver:
		change, timers := e.changePhase(PhasePostPlay, now)
		return []ServerEvent{change}, timers

	case TimedPostPlayOver:
		// re-arm; terminal until somebody issues the next NewRound
		change, timers := e.changePhase(PhasePostPlay, now)
		return []ServerEvent{change}, timers

	case TimedGiveHint:
		return e.giveHint(r, now)

	case TimedInactiveDrawer:
		if len(r.DrawOps) > 0 {
			return nil, nil
		}
		change, timers := e.changePhase(PhasePostPlay, now)
		return []ServerEvent{change}, timers
	}
	return nil, nil
}

// giveHint reveals the next letter of the chosen word, front to back,
// capped at half the word so guessing stays a game.
func (e *Engine) giveHint(r *Round, now int64) ([]ServerEvent, []TimedEvent) {
	word := []rune(e.Words.Word(r.WordChoice, r.EasyWord, r.HardWord))
	maxHints := len(word) / 2
	if len(r.Hints) >= maxHints {
		return nil, nil
	}
	idx := uint32(len(r.Hints))
	hint := SeRoundHint{RoundID: r.RoundID, Index: idx, Letter: string(word[idx])}
	e.Apply(hint)
	if len(r.Hints) >= maxHints {
		return []ServerEvent{hint}, nil
	}
	next := TimedEvent{
		RoundID: r.RoundID, Phase: PhasePlay,
		Type: TimedGiveHint, At: now + e.Timings.HintInterval.Milliseconds(),
	}
	return []ServerEvent{hint}, []TimedEvent{next}
}

// Apply mutates the game for a single already-validated event. This is
// the replica path: clients feed every broadcast event through here and
// end up with the exact same state as the authority, score math included,
// because scores arrive as pre-computed deltas.
func (e *Engine) Apply(ev ServerEvent) {
	g := e.Game
	switch ev := ev.(type) {
	case SePlayerJoin:
		g.Players[ev.ID] = &Player{Name: ev.Name, Connected: true}
	case SePlayerLeave:
		delete(g.Players, ev.ID)
	case SePlayerConnect:
		if p, ok := g.Players[ev.ID]; ok {
			p.Connected = true
		}
	case SePlayerDisconnect:
		if p, ok := g.Players[ev.ID]; ok {
			p.Connected = false
		}
	case SePlayerRename:
		if p, ok := g.Players[ev.ID]; ok {
			p.Name = ev.Name
		}
	case SePlayerIncRoundScore:
		if p, ok := g.Players[ev.ID]; ok {
			p.RoundScore += ev.By
		}
	case SeRoundIncDrawScore:
		if p, ok := g.Players[ev.ID]; ok {
			p.DrawScore += ev.By
		}
		if g.Round != nil {
			g.Round.DrawScore += ev.By
		}
	case SeRoundIncGuessScore:
		if p, ok := g.Players[ev.ID]; ok {
			p.GuessScore += ev.By
		}
		if g.Round != nil {
			g.Round.GuessScore += ev.By
		}
	case SePlayerDrawOp:
		if r := g.Round; r != nil && r.Drawer == ev.ID {
			r.DrawOps = append(r.DrawOps, ev.Op)
		}
	case SePlayerChooseWord:
		if r := g.Round; r != nil && r.Drawer == ev.Drawer {
			r.WordChoice = ev.Choice
		}
	case SePlayerGuessWord:
		if r := g.Round; r != nil && r.Drawer != ev.Guesser {
			guess := Guess{
				Guesser:      ev.Guesser,
				AfterDrawOps: ev.AfterDrawOps,
			}
			if ev.Guess == e.Words.Word(r.WordChoice, r.EasyWord, r.HardWord) {
				guess.Correct = true
			} else {
				guess.Text = ev.Guess
			}
			r.Guesses = append(r.Guesses, guess)
		}
	case SePlayerLikeRound:
		// nothing to record
	case SeNewRound:
		if g.Round != nil && g.Round.RoundID == ev.RoundID {
			return
		}
		g.Round = &Round{
			RoundID:     ev.RoundID,
			Phase:       PhaseChooseWord,
			Drawer:      ev.Drawer,
			DrawOps:     make([]DrawOp, 0, 128),
			EasyWord:    ev.EasyWord,
			HardWord:    ev.HardWord,
			WordChoice:  WordEasy,
			PhaseEndsAt: ev.PhaseEndsAt,
		}
		for _, p := range g.Players {
			p.RoundScore = 0
			p.DrawScore = 0
			p.GuessScore = 0
		}
	case SeRoundChangePhase:
		if r := g.Round; r != nil && r.RoundID == ev.RoundID {
			r.Phase = ev.Phase
			r.PhaseEndsAt = ev.PhaseEndsAt
		}
	case SeRoundHint:
		if r := g.Round; r != nil && r.RoundID == ev.RoundID {
			r.Hints = append(r.Hints, Hint{Index: ev.Index, Letter: ev.Letter})
		}
	case SeSetGame:
		*g = *ev.Game
	case SeError:
		// no-op
	}
}

// ApplyAll feeds an ordered broadcast batch through Apply.
func (e *Engine) ApplyAll(evs []ServerEvent) {
	for _, ev := range evs {
		e.Apply(ev)
	}
}
