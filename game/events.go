package game

import "encoding/json"

// PlayerID is allocated sequentially by the room actor. Clients never
// pick their own id and events never carry a trusted sender id.
type PlayerID uint32

type WordChoice uint8

const (
	WordEasy WordChoice = iota
	WordHard
)

type Phase uint8

const (
	PhaseChooseWord Phase = iota
	PhasePrePlay
	PhasePlay
	PhasePostPlay
)

func (p Phase) String() string {
	switch p {
	case PhaseChooseWord:
		return "choose_word"
	case PhasePrePlay:
		return "pre_play"
	case PhasePlay:
		return "play"
	case PhasePostPlay:
		return "post_play"
	}
	return "unknown"
}

// DrawOp is an opaque drawing payload. The engine appends and relays it
// verbatim, it never inspects the contents.
type DrawOp = json.RawMessage

// ClientEvent is the closed set of events a connection may submit. None
// of the variants carry a sender id; the room stamps the authenticated
// sender during translation (see FromClient). Keeping this union separate
// from ServerEvent means untrusted input can never construct a
// server-only event.
type ClientEvent interface {
	isClientEvent()
}

type CeRename struct {
	Name string `json:"name"`
}

type CeDrawOp struct {
	Op DrawOp `json:"op"`
}

type CeChooseWord struct {
	Choice WordChoice `json:"choice"`
}

type CeGuessWord struct {
	Guess string `json:"guess"`
	// AfterDrawOps is the number of draw ops the guesser had seen when
	// they submitted, so replicas can line the guess up against the
	// exact drawing state regardless of transport jitter.
	AfterDrawOps uint32 `json:"after_draw_ops"`
}

type CeLikeRound struct {
	RoundID uint32 `json:"round_id"`
}

func (CeRename) isClientEvent()     {}
func (CeDrawOp) isClientEvent()     {}
func (CeChooseWord) isClientEvent() {}
func (CeGuessWord) isClientEvent()  {}
func (CeLikeRound) isClientEvent()  {}

// ServerEvent is the closed set of broadcast events. Client-originable
// variants are only ever built by FromClient; the rest (SetGame,
// NewRound, RoundChangePhase, score increments, hints, errors, player
// lifecycle) are produced by the engine and room alone.
type ServerEvent interface {
	isServerEvent()
}

type SePlayerJoin struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

type SePlayerLeave struct {
	ID PlayerID `json:"id"`
}

type SePlayerConnect struct {
	ID PlayerID `json:"id"`
}

type SePlayerDisconnect struct {
	ID PlayerID `json:"id"`
}

type SePlayerRename struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

type SePlayerIncRoundScore struct {
	ID PlayerID `json:"id"`
	By uint32   `json:"by"`
}

type SeRoundIncDrawScore struct {
	ID PlayerID `json:"id"`
	By uint32   `json:"by"`
}

type SeRoundIncGuessScore struct {
	ID PlayerID `json:"id"`
	By uint32   `json:"by"`
}

type SePlayerDrawOp struct {
	ID PlayerID `json:"id"`
	Op DrawOp   `json:"op"`
}

type SePlayerChooseWord struct {
	Drawer PlayerID   `json:"drawer"`
	Choice WordChoice `json:"choice"`
}

type SePlayerGuessWord struct {
	Guesser      PlayerID `json:"guesser"`
	Guess        string   `json:"guess"`
	AfterDrawOps uint32   `json:"after_draw_ops"`
}

type SePlayerLikeRound struct {
	Liker   PlayerID `json:"liker"`
	RoundID uint32   `json:"round_id"`
}

// SeNewRound replaces the current round wholesale. PhaseEndsAt is stamped
// by the authoritative side so replicas adopt the exact same deadline.
type SeNewRound struct {
	RoundID     uint32   `json:"round_id"`
	Drawer      PlayerID `json:"drawer"`
	EasyWord    uint32   `json:"easy_word"`
	HardWord    uint32   `json:"hard_word"`
	PhaseEndsAt int64    `json:"phase_ends_at"`
}

type SeRoundChangePhase struct {
	RoundID     uint32 `json:"round_id"`
	Phase       Phase  `json:"phase"`
	PhaseEndsAt int64  `json:"phase_ends_at"`
}

type SeRoundHint struct {
	RoundID uint32 `json:"round_id"`
	Index   uint32 `json:"index"`
	Letter  string `json:"letter"`
}

// SeSetGame is a full snapshot. It is only ever serialized as a direct
// reply to a joining or reconnecting caller, never broadcast.
type SeSetGame struct {
	PlayerID PlayerID `json:"player_id"`
	Game     *Game    `json:"game"`
}

type SeError struct {
	Code string `json:"code"`
}

func (SePlayerJoin) isServerEvent()          {}
func (SePlayerLeave) isServerEvent()         {}
func (SePlayerConnect) isServerEvent()       {}
func (SePlayerDisconnect) isServerEvent()    {}
func (SePlayerRename) isServerEvent()        {}
func (SePlayerIncRoundScore) isServerEvent() {}
func (SeRoundIncDrawScore) isServerEvent()   {}
func (SeRoundIncGuessScore) isServerEvent()  {}
func (SePlayerDrawOp) isServerEvent()        {}
func (SePlayerChooseWord) isServerEvent()    {}
func (SePlayerGuessWord) isServerEvent()     {}
func (SePlayerLikeRound) isServerEvent()     {}
func (SeNewRound) isServerEvent()            {}
func (SeRoundChangePhase) isServerEvent()    {}
func (SeRoundHint) isServerEvent()           {}
func (SeSetGame) isServerEvent()             {}
func (SeError) isServerEvent()               {}

// FromClient translates an inbound client event into its server
// counterpart, stamping the authenticated sender. This is the only way a
// client-originable ServerEvent comes into existence.
func FromClient(sender PlayerID, ce ClientEvent) ServerEvent {
	switch ce := ce.(type) {
	case CeRename:
		return SePlayerRename{ID: sender, Name: ce.Name}
	case CeDrawOp:
		return SePlayerDrawOp{ID: sender, Op: ce.Op}
	case CeChooseWord:
		return SePlayerChooseWord{Drawer: sender, Choice: ce.Choice}
	case CeGuessWord:
		return SePlayerGuessWord{Guesser: sender, Guess: ce.Guess, AfterDrawOps: ce.AfterDrawOps}
	case CeLikeRound:
		return SePlayerLikeRound{Liker: sender, RoundID: ce.RoundID}
	}
	return nil
}
