package game

import (
	"encoding/json"
	"fmt"
)

// The wire format is a JSON envelope per event, batched under "events".
// Bit-exact binary encoding is owned by the clients' codegen pipeline;
// the only contract here is that every field round-trips losslessly and
// variant tags are preserved.

type envelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d"`
}

type eventBatch struct {
	Events []envelope `json:"events"`
}

const (
	tagPlayerJoin          = "player_join"
	tagPlayerLeave         = "player_leave"
	tagPlayerConnect       = "player_connect"
	tagPlayerDisconnect    = "player_disconnect"
	tagPlayerRename        = "player_rename"
	tagPlayerIncRoundScore = "player_inc_round_score"
	tagRoundIncDrawScore   = "round_inc_draw_score"
	tagRoundIncGuessScore  = "round_inc_guess_score"
	tagPlayerDrawOp        = "player_draw_op"
	tagPlayerChooseWord    = "player_choose_word"
	tagPlayerGuessWord     = "player_guess_word"
	tagPlayerLikeRound     = "player_like_round"
	tagNewRound            = "new_round"
	tagRoundChangePhase    = "round_change_phase"
	tagRoundHint           = "round_hint"
	tagSetGame             = "set_game"
	tagError               = "error"

	tagCeRename     = "rename"
	tagCeDrawOp     = "draw_op"
	tagCeChooseWord = "choose_word"
	tagCeGuessWord  = "guess_word"
	tagCeLikeRound  = "like_round"
)

func serverEventTag(ev ServerEvent) (string, error) {
	switch ev.(type) {
	case SePlayerJoin:
		return tagPlayerJoin, nil
	case SePlayerLeave:
		return tagPlayerLeave, nil
	case SePlayerConnect:
		return tagPlayerConnect, nil
	case SePlayerDisconnect:
		return tagPlayerDisconnect, nil
	case SePlayerRename:
		return tagPlayerRename, nil
	case SePlayerIncRoundScore:
		return tagPlayerIncRoundScore, nil
	case SeRoundIncDrawScore:
		return tagRoundIncDrawScore, nil
	case SeRoundIncGuessScore:
		return tagRoundIncGuessScore, nil
	case SePlayerDrawOp:
		return tagPlayerDrawOp, nil
	case SePlayerChooseWord:
		return tagPlayerChooseWord, nil
	case SePlayerGuessWord:
		return tagPlayerGuessWord, nil
	case SePlayerLikeRound:
		return tagPlayerLikeRound, nil
	case SeNewRound:
		return tagNewRound, nil
	case SeRoundChangePhase:
		return tagRoundChangePhase, nil
	case SeRoundHint:
		return tagRoundHint, nil
	case SeSetGame:
		return tagSetGame, nil
	case SeError:
		return tagError, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
}

// EncodeServerEvents serializes an ordered broadcast batch.
func EncodeServerEvents(evs []ServerEvent) ([]byte, error) {
	batch := eventBatch{Events: make([]envelope, 0, len(evs))}
	for _, ev := range evs {
		tag, err := serverEventTag(ev)
		if err != nil {
			return nil, err
		}
		d, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		batch.Events = append(batch.Events, envelope{T: tag, D: d})
	}
	return json.Marshal(batch)
}

// DecodeServerEvents parses a broadcast batch back into typed events.
// This is the replica-side entry point.
func DecodeServerEvents(data []byte) ([]ServerEvent, error) {
	var batch eventBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
	}
	evs := make([]ServerEvent, 0, len(batch.Events))
	for _, env := range batch.Events {
		ev, err := decodeServerEvent(env)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}
	return evs, nil
}

func decodeServerEvent(env envelope) (ServerEvent, error) {
	var ev ServerEvent
	switch env.T {
	case tagPlayerJoin:
		ev = &SePlayerJoin{}
	case tagPlayerLeave:
		ev = &SePlayerLeave{}
	case tagPlayerConnect:
		ev = &SePlayerConnect{}
	case tagPlayerDisconnect:
		ev = &SePlayerDisconnect{}
	case tagPlayerRename:
		ev = &SePlayerRename{}
	case tagPlayerIncRoundScore:
		ev = &SePlayerIncRoundScore{}
	case tagRoundIncDrawScore:
		ev = &SeRoundIncDrawScore{}
	case tagRoundIncGuessScore:
		ev = &SeRoundIncGuessScore{}
	case tagPlayerDrawOp:
		ev = &SePlayerDrawOp{}
	case tagPlayerChooseWord:
		ev = &SePlayerChooseWord{}
	case tagPlayerGuessWord:
		ev = &SePlayerGuessWord{}
	case tagPlayerLikeRound:
		ev = &SePlayerLikeRound{}
	case tagNewRound:
		ev = &SeNewRound{}
	case tagRoundChangePhase:
		ev = &SeRoundChangePhase{}
	case tagRoundHint:
		ev = &SeRoundHint{}
	case tagSetGame:
		ev = &SeSetGame{}
	case tagError:
		ev = &SeError{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.T)
	}
	if err := json.Unmarshal(env.D, ev); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
	}
	return deref(ev), nil
}

// deref unwraps the pointer used for unmarshaling so events compare by
// value everywhere else.
func deref(ev ServerEvent) ServerEvent {
	switch ev := ev.(type) {
	case *SePlayerJoin:
		return *ev
	case *SePlayerLeave:
		return *ev
	case *SePlayerConnect:
		return *ev
	case *SePlayerDisconnect:
		return *ev
	case *SePlayerRename:
		return *ev
	case *SePlayerIncRoundScore:
		return *ev
	case *SeRoundIncDrawScore:
		return *ev
	case *SeRoundIncGuessScore:
		return *ev
	case *SePlayerDrawOp:
		return *ev
	case *SePlayerChooseWord:
		return *ev
	case *SePlayerGuessWord:
		return *ev
	case *SePlayerLikeRound:
		return *ev
	case *SeNewRound:
		return *ev
	case *SeRoundChangePhase:
		return *ev
	case *SeRoundHint:
		return *ev
	case *SeSetGame:
		return *ev
	case *SeError:
		return *ev
	}
	return ev
}

// EncodeClientEvent serializes one client event; clients and tests use
// this to build inbound frames.
func EncodeClientEvent(ce ClientEvent) ([]byte, error) {
	var tag string
	switch ce.(type) {
	case CeRename:
		tag = tagCeRename
	case CeDrawOp:
		tag = tagCeDrawOp
	case CeChooseWord:
		tag = tagCeChooseWord
	case CeGuessWord:
		tag = tagCeGuessWord
	case CeLikeRound:
		tag = tagCeLikeRound
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, ce)
	}
	d, err := json.Marshal(ce)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{T: tag, D: d})
}

// DecodeClientEvent parses one inbound frame. Anything malformed or
// outside the closed client union is rejected here and never reaches
// the engine.
func DecodeClientEvent(data []byte) (ClientEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
	}
	switch env.T {
	case tagCeRename:
		var ce CeRename
		if err := json.Unmarshal(env.D, &ce); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
		}
		return ce, nil
	case tagCeDrawOp:
		var ce CeDrawOp
		if err := json.Unmarshal(env.D, &ce); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
		}
		return ce, nil
	case tagCeChooseWord:
		var ce CeChooseWord
		if err := json.Unmarshal(env.D, &ce); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
		}
		return ce, nil
	case tagCeGuessWord:
		var ce CeGuessWord
		if err := json.Unmarshal(env.D, &ce); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
		}
		return ce, nil
	case tagCeLikeRound:
		var ce CeLikeRound
		if err := json.Unmarshal(env.D, &ce); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownEvent, err)
		}
		return ce, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.T)
}
