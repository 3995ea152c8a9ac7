package game

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = PlayerID(0)
	bob   = PlayerID(1)
	carol = PlayerID(2)
)

// t0 is an arbitrary fixed epoch-millis origin for test clocks.
const t0 = int64(1_700_000_000_000)

func newTestEngine() *Engine {
	return NewEngine(NewGame(), DefaultTimings(), DefaultCatalog())
}

// advance is a test helper that fails on invariant errors, which no test
// in this file expects to hit.
func advance(t *testing.T, e *Engine, ev ServerEvent, now int64) []ServerEvent {
	t.Helper()
	out, _, err := e.Advance(ev, now)
	require.NoError(t, err)
	return out
}

// startRound drives an engine from empty to a fresh round 1 with alice
// drawing and bob guessing, and returns every broadcast event produced
// along the way so determinism tests can replay them.
func startRound(t *testing.T, e *Engine, now int64) []ServerEvent {
	t.Helper()
	var all []ServerEvent
	all = append(all, advance(t, e, SePlayerJoin{ID: alice, Name: "alice"}, now)...)
	all = append(all, advance(t, e, SePlayerJoin{ID: bob, Name: "bob"}, now)...)
	all = append(all, advance(t, e, SeNewRound{
		RoundID:     1,
		Drawer:      alice,
		EasyWord:    3,
		HardWord:    7,
		PhaseEndsAt: now + e.Timings.ChooseWord.Milliseconds(),
	}, now)...)
	return all
}

// toPlay moves a freshly started round into the Play phase with the
// given word choice and returns the instant Play began.
func toPlay(t *testing.T, e *Engine, choice WordChoice, now int64) ([]ServerEvent, int64) {
	t.Helper()
	var all []ServerEvent
	all = append(all, advance(t, e, SePlayerChooseWord{Drawer: alice, Choice: choice}, now)...)
	playStart := now + e.Timings.PrePlay.Milliseconds()
	evs, _ := e.TimedAdvance(TimedEvent{
		RoundID: 1, Phase: PhasePrePlay, Type: TimedPrePlayOver,
	}, playStart)
	all = append(all, evs...)
	require.Equal(t, PhasePlay, e.Game.Round.Phase)
	return all, playStart
}

func TestEngine_JoinAndConnect(t *testing.T) {
	e := newTestEngine()

	out := advance(t, e, SePlayerJoin{ID: alice, Name: "alice"}, t0)
	assert.Equal(t, []ServerEvent{SePlayerJoin{ID: alice, Name: "alice"}}, out)
	assert.True(t, e.Game.Players[alice].Connected)

	// a join for a taken id is the one unrecoverable input
	_, _, err := e.Advance(SePlayerJoin{ID: alice, Name: "impostor"}, t0)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Equal(t, "alice", e.Game.Players[alice].Name)

	// disconnect then reconnect flips the flag and nothing else
	advance(t, e, SePlayerDisconnect{ID: alice}, t0)
	assert.False(t, e.Game.Players[alice].Connected)
	advance(t, e, SePlayerConnect{ID: alice}, t0)
	assert.True(t, e.Game.Players[alice].Connected)

	// reconnecting an already-connected player is absorbed silently
	out = advance(t, e, SePlayerConnect{ID: alice}, t0)
	assert.Empty(t, out)
}

func TestEngine_EventsForUnknownPlayersAreAbsorbed(t *testing.T) {
	e := newTestEngine()
	advance(t, e, SePlayerJoin{ID: alice, Name: "alice"}, t0)

	for _, ev := range []ServerEvent{
		SePlayerDisconnect{ID: carol},
		SePlayerConnect{ID: carol},
		SePlayerRename{ID: carol, Name: "x"},
		SePlayerLeave{ID: carol},
		SePlayerIncRoundScore{ID: carol, By: 7},
	} {
		out := advance(t, e, ev, t0)
		assert.Empty(t, out, "expected %T to be absorbed", ev)
	}
	assert.Len(t, e.Game.Players, 1)
}

func TestEngine_NewRoundIdempotent(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	require.NotNil(t, e.Game.Round)
	e.Game.Round.DrawOps = append(e.Game.Round.DrawOps, DrawOp(`{"l":1}`))

	// re-delivering round 1 must not wipe its accumulated state
	out := advance(t, e, SeNewRound{RoundID: 1, Drawer: bob, EasyWord: 9}, t0)
	assert.Empty(t, out)
	assert.Equal(t, alice, e.Game.Round.Drawer)
	assert.Len(t, e.Game.Round.DrawOps, 1)
}

func TestEngine_NewRoundResetsScores(t *testing.T) {
	e := newTestEngine()
	out := startRound(t, e, t0)
	require.Len(t, out, 3)

	e.Game.Players[alice].RoundScore = 50
	e.Game.Players[bob].GuessScore = 80
	advance(t, e, SeNewRound{RoundID: 2, Drawer: bob, PhaseEndsAt: t0 + 30_000}, t0)

	assert.Equal(t, uint32(2), e.Game.Round.RoundID)
	assert.Equal(t, uint32(0), e.Game.Players[alice].RoundScore)
	assert.Equal(t, uint32(0), e.Game.Players[bob].GuessScore)
	assert.Equal(t, PhaseChooseWord, e.Game.Round.Phase)
}

func TestEngine_ChooseWordOnlyByDrawerDuringChooseWord(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)

	// wrong sender
	out := advance(t, e, SePlayerChooseWord{Drawer: bob, Choice: WordHard}, t0)
	assert.Empty(t, out)
	assert.Equal(t, WordEasy, e.Game.Round.WordChoice)

	// right sender transitions into PrePlay with a stamped deadline
	out = advance(t, e, SePlayerChooseWord{Drawer: alice, Choice: WordHard}, t0)
	require.Len(t, out, 2)
	change, ok := out[1].(SeRoundChangePhase)
	require.True(t, ok)
	assert.Equal(t, PhasePrePlay, change.Phase)
	assert.Equal(t, t0+e.Timings.PrePlay.Milliseconds(), change.PhaseEndsAt)
	assert.Equal(t, WordHard, e.Game.Round.WordChoice)

	// wrong phase now
	out = advance(t, e, SePlayerChooseWord{Drawer: alice, Choice: WordEasy}, t0)
	assert.Empty(t, out)
	assert.Equal(t, WordHard, e.Game.Round.WordChoice)
}

func TestEngine_DrawOpsOnlyByDrawerDuringPlay(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)

	op := DrawOp(`{"x":1,"y":2}`)

	// not in Play yet
	out := advance(t, e, SePlayerDrawOp{ID: alice, Op: op}, t0)
	assert.Empty(t, out)

	toPlay(t, e, WordEasy, t0)

	// guessers cannot draw
	out = advance(t, e, SePlayerDrawOp{ID: bob, Op: op}, t0)
	assert.Empty(t, out)
	assert.Empty(t, e.Game.Round.DrawOps)

	out = advance(t, e, SePlayerDrawOp{ID: alice, Op: op}, t0)
	assert.Equal(t, []ServerEvent{SePlayerDrawOp{ID: alice, Op: op}}, out)
	assert.Len(t, e.Game.Round.DrawOps, 1)
}

func TestEngine_GuessScenario(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)

	word := e.Words.Easy(3)

	// a wrong guess is echoed with its text preserved
	out := advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: word + "x"}, playStart)
	assert.Equal(t, []ServerEvent{SePlayerGuessWord{Guesser: bob, Guess: word + "x"}}, out)
	require.Len(t, e.Game.Round.Guesses, 1)
	assert.False(t, e.Game.Round.Guesses[0].Correct)
	assert.Equal(t, word+"x", e.Game.Round.Guesses[0].Text)
	assert.Equal(t, uint32(0), e.Game.Players[bob].GuessScore)

	// 2 seconds in, bob lands the first correct guess:
	// ((10 + 120) - (2 + 0)) * 2 = 256
	now := playStart + 2_500
	out = advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: word}, now)

	want := []ServerEvent{
		SePlayerGuessWord{Guesser: bob, Guess: word},
		SeRoundIncGuessScore{ID: bob, By: 256},
		SePlayerIncRoundScore{ID: bob, By: 256},
		SeRoundIncDrawScore{ID: alice, By: 256},
		SePlayerIncRoundScore{ID: alice, By: 256},
		SeRoundChangePhase{RoundID: 1, Phase: PhasePostPlay, PhaseEndsAt: now + e.Timings.PostPlay.Milliseconds()},
	}
	assert.Equal(t, want, out)

	assert.Equal(t, uint32(256), e.Game.Players[bob].GuessScore)
	assert.Equal(t, uint32(256), e.Game.Players[bob].RoundScore)
	assert.Equal(t, uint32(256), e.Game.Players[alice].DrawScore)
	assert.Equal(t, uint32(256), e.Game.Players[alice].RoundScore)
	assert.Equal(t, uint32(256), e.Game.Round.GuessScore)
	assert.Equal(t, uint32(256), e.Game.Round.DrawScore)

	// the correct guess is recorded with its text scrubbed
	require.Len(t, e.Game.Round.Guesses, 2)
	assert.True(t, e.Game.Round.Guesses[1].Correct)
	assert.Empty(t, e.Game.Round.Guesses[1].Text)

	// everyone connected has scored, so the round is already in PostPlay
	assert.Equal(t, PhasePostPlay, e.Game.Round.Phase)
}

func TestEngine_SecondGuesserGetsNoBonusAndDrawerScoresOnce(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	advance(t, e, SePlayerJoin{ID: carol, Name: "carol"}, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)

	word := e.Words.Easy(3)

	now := playStart + 2_000
	advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: word}, now)
	assert.Equal(t, PhasePlay, e.Game.Round.Phase, "carol has not scored yet")

	drawScoreAfterFirst := e.Game.Players[alice].DrawScore

	// 10 seconds in, no first-correct bonus: (120 - 10) * 2 = 220
	now = playStart + 10_000
	out := advance(t, e, SePlayerGuessWord{Guesser: carol, Guess: word}, now)
	require.GreaterOrEqual(t, len(out), 3)
	assert.Equal(t, SeRoundIncGuessScore{ID: carol, By: 220}, out[1])

	// the drawer only earns on the first correct guess
	assert.Equal(t, drawScoreAfterFirst, e.Game.Players[alice].DrawScore)

	// now all three connected players have scored
	assert.Equal(t, PhasePostPlay, e.Game.Round.Phase)
}

func TestEngine_HardWordTriplesTheDelta(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordHard, t0)

	word := e.Words.Hard(7)
	// ((10 + 120) - 5) * 3 = 375
	out := advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: word}, playStart+5_000)
	require.GreaterOrEqual(t, len(out), 2)
	assert.Equal(t, SeRoundIncGuessScore{ID: bob, By: 375}, out[1])
}

func TestEngine_GuessScoreClampsAtZero(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)

	word := e.Words.Easy(3)
	// 135 seconds elapsed exceeds the 130-point ceiling
	out := advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: word}, playStart+135_000)
	require.GreaterOrEqual(t, len(out), 2)
	assert.Equal(t, SeRoundIncGuessScore{ID: bob, By: 0}, out[1])
}

// For a fixed bonus and multiplier the delta strictly shrinks as seconds
// pass or hints land, until the zero clamp flattens it.
func TestEngine_GuessScoreShrinksWithTimeAndHints(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)
	r := e.Game.Round

	t.Run("elapsed seconds", func(t *testing.T) {
		prev := e.guessScore(r, false, playStart)
		assert.Equal(t, uint32(scoreBase*easyMultiplier), prev)
		for secs := int64(1); secs <= 12; secs++ {
			inc := e.guessScore(r, false, playStart+secs*1000)
			assert.Less(t, inc, prev, "inc must shrink at %ds", secs)
			prev = inc
		}
	})

	t.Run("hints", func(t *testing.T) {
		now := playStart + 10_000
		prev := e.guessScore(r, false, now)
		for i := 0; i < 3; i++ {
			r.Hints = append(r.Hints, Hint{Index: uint32(i), Letter: "x"})
			inc := e.guessScore(r, false, now)
			assert.Less(t, inc, prev, "inc must shrink at %d hints", len(r.Hints))
			// a hint costs exactly one pre-multiplier point
			assert.Equal(t, prev-uint32(easyMultiplier), inc)
			prev = inc
		}
		r.Hints = nil
	})

	t.Run("first-correct bonus is a fixed offset", func(t *testing.T) {
		now := playStart + 10_000
		withBonus := e.guessScore(r, true, now)
		without := e.guessScore(r, false, now)
		assert.Equal(t, uint32(firstCorrectBonus*easyMultiplier), withBonus-without)
	})
}

func TestEngine_DrawerAndWrongPhaseGuessesAbsorbed(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)

	word := e.Words.Easy(3)

	// guessing during ChooseWord does nothing
	out := advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: word}, t0)
	assert.Empty(t, out)

	toPlay(t, e, WordEasy, t0)

	// the drawer cannot guess their own word
	out = advance(t, e, SePlayerGuessWord{Guesser: alice, Guess: word}, t0)
	assert.Empty(t, out)
	assert.Empty(t, e.Game.Round.Guesses)
}

func TestEngine_ChooseWordTimeoutDefaultsToEasy(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)

	deadline := e.Game.Round.PhaseEndsAt
	evs, timers := e.TimedAdvance(TimedEvent{
		RoundID: 1, Phase: PhaseChooseWord, Type: TimedChooseWordOver,
	}, deadline)

	require.Len(t, evs, 1)
	change := evs[0].(SeRoundChangePhase)
	assert.Equal(t, PhasePrePlay, change.Phase)
	assert.Equal(t, WordEasy, e.Game.Round.WordChoice)
	require.Len(t, timers, 1)
	assert.Equal(t, TimedPrePlayOver, timers[0].Type)
}

func TestEngine_StaleTimersAreDropped(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	toPlay(t, e, WordEasy, t0)

	// phase moved on: the ChooseWord token is dead
	evs, timers := e.TimedAdvance(TimedEvent{
		RoundID: 1, Phase: PhaseChooseWord, Type: TimedChooseWordOver,
	}, t0)
	assert.Empty(t, evs)
	assert.Empty(t, timers)

	// wrong round id is equally dead
	evs, _ = e.TimedAdvance(TimedEvent{
		RoundID: 99, Phase: PhasePlay, Type: TimedPlayOver,
	}, t0)
	assert.Empty(t, evs)
	assert.Equal(t, PhasePlay, e.Game.Round.Phase)
}

func TestEngine_PlayOverAndPostPlayRearm(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)

	playEnd := playStart + e.Timings.PlayEasy.Milliseconds()
	evs, timers := e.TimedAdvance(TimedEvent{
		RoundID: 1, Phase: PhasePlay, Type: TimedPlayOver,
	}, playEnd)
	require.Len(t, evs, 1)
	assert.Equal(t, PhasePostPlay, e.Game.Round.Phase)
	require.Len(t, timers, 1)
	assert.Equal(t, TimedPostPlayOver, timers[0].Type)

	// PostPlayOver re-arms itself until something starts the next round
	postEnd := playEnd + e.Timings.PostPlay.Milliseconds()
	evs, timers = e.TimedAdvance(TimedEvent{
		RoundID: 1, Phase: PhasePostPlay, Type: TimedPostPlayOver,
	}, postEnd)
	require.Len(t, evs, 1)
	require.Len(t, timers, 1)
	assert.Equal(t, TimedPostPlayOver, timers[0].Type)
	assert.Equal(t, postEnd+e.Timings.PostPlay.Milliseconds(), timers[0].At)
}

func TestEngine_HintsRevealHalfTheWordAtMost(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)

	word := []rune(e.Words.Easy(3))
	maxHints := len(word) / 2

	now := playStart
	for i := 0; i < maxHints; i++ {
		now += e.Timings.HintInterval.Milliseconds()
		evs, timers := e.TimedAdvance(TimedEvent{
			RoundID: 1, Phase: PhasePlay, Type: TimedGiveHint,
		}, now)
		require.Len(t, evs, 1)
		hint := evs[0].(SeRoundHint)
		assert.Equal(t, uint32(i), hint.Index)
		assert.Equal(t, string(word[i]), hint.Letter)
		if i == maxHints-1 {
			assert.Empty(t, timers, "last hint must not re-arm")
		} else {
			require.Len(t, timers, 1)
			assert.Equal(t, TimedGiveHint, timers[0].Type)
		}
	}
	assert.Len(t, e.Game.Round.Hints, maxHints)

	// forcing one more fires nothing
	evs, _ := e.TimedAdvance(TimedEvent{
		RoundID: 1, Phase: PhasePlay, Type: TimedGiveHint,
	}, now+e.Timings.HintInterval.Milliseconds())
	assert.Empty(t, evs)
}

func TestEngine_HintsReduceTheGuessScore(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)

	now := playStart + e.Timings.HintInterval.Milliseconds()
	e.TimedAdvance(TimedEvent{RoundID: 1, Phase: PhasePlay, Type: TimedGiveHint}, now)

	// 31 seconds, 1 hint: ((10 + 120) - (31 + 1)) * 2 = 196
	word := e.Words.Easy(3)
	out := advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: word}, playStart+31_000)
	require.GreaterOrEqual(t, len(out), 2)
	assert.Equal(t, SeRoundIncGuessScore{ID: bob, By: 196}, out[1])
}

func TestEngine_InactiveDrawerCutsTheRoundShort(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)

	now := playStart + e.Timings.InactiveDrawer.Milliseconds()

	t.Run("no draw ops yet", func(t *testing.T) {
		evs, _ := e.TimedAdvance(TimedEvent{
			RoundID: 1, Phase: PhasePlay, Type: TimedInactiveDrawer,
		}, now)
		require.Len(t, evs, 1)
		assert.Equal(t, PhasePostPlay, e.Game.Round.Phase)
	})
}

func TestEngine_ActiveDrawerSurvivesTheInactivityTimer(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	_, playStart := toPlay(t, e, WordEasy, t0)

	advance(t, e, SePlayerDrawOp{ID: alice, Op: DrawOp(`{}`)}, playStart)

	evs, _ := e.TimedAdvance(TimedEvent{
		RoundID: 1, Phase: PhasePlay, Type: TimedInactiveDrawer,
	}, playStart+e.Timings.InactiveDrawer.Milliseconds())
	assert.Empty(t, evs)
	assert.Equal(t, PhasePlay, e.Game.Round.Phase)
}

func TestEngine_PlayPhaseArmsAllThreeTimers(t *testing.T) {
	e := newTestEngine()
	startRound(t, e, t0)
	advance(t, e, SePlayerChooseWord{Drawer: alice, Choice: WordEasy}, t0)

	playStart := t0 + e.Timings.PrePlay.Milliseconds()
	_, timers := e.TimedAdvance(TimedEvent{
		RoundID: 1, Phase: PhasePrePlay, Type: TimedPrePlayOver,
	}, playStart)

	require.Len(t, timers, 3)
	assert.Equal(t, TimedPlayOver, timers[0].Type)
	assert.Equal(t, playStart+e.Timings.PlayEasy.Milliseconds(), timers[0].At)
	assert.Equal(t, TimedGiveHint, timers[1].Type)
	assert.Equal(t, playStart+e.Timings.HintInterval.Milliseconds(), timers[1].At)
	assert.Equal(t, TimedInactiveDrawer, timers[2].Type)
	assert.Equal(t, playStart+e.Timings.InactiveDrawer.Milliseconds(), timers[2].At)
	for _, tev := range timers {
		assert.Equal(t, uint32(1), tev.RoundID)
		assert.Equal(t, PhasePlay, tev.Phase)
	}
}

// Two engines fed identical inputs at identical clock readings must land
// on identical games and identical outputs.
func TestEngine_Deterministic(t *testing.T) {
	run := func() (*Engine, [][]ServerEvent) {
		e := newTestEngine()
		var outs [][]ServerEvent
		rec := func(evs []ServerEvent) { outs = append(outs, evs) }

		rec(advance(t, e, SePlayerJoin{ID: alice, Name: "alice"}, t0))
		rec(advance(t, e, SePlayerJoin{ID: bob, Name: "bob"}, t0))
		rec(advance(t, e, SeNewRound{RoundID: 1, Drawer: alice, EasyWord: 3, HardWord: 7, PhaseEndsAt: t0 + 30_000}, t0))
		rec(advance(t, e, SePlayerChooseWord{Drawer: alice, Choice: WordEasy}, t0+1_000))
		evs, _ := e.TimedAdvance(TimedEvent{RoundID: 1, Phase: PhasePrePlay, Type: TimedPrePlayOver}, t0+6_000)
		rec(evs)
		rec(advance(t, e, SePlayerDrawOp{ID: alice, Op: DrawOp(`{"x":4}`)}, t0+8_000))
		rec(advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: "nope", AfterDrawOps: 1}, t0+9_000))
		rec(advance(t, e, SePlayerGuessWord{Guesser: bob, Guess: e.Words.Easy(3), AfterDrawOps: 1}, t0+10_000))
		return e, outs
	}

	e1, outs1 := run()
	e2, outs2 := run()

	assert.Empty(t, cmp.Diff(e1.Game, e2.Game))
	assert.Empty(t, cmp.Diff(outs1, outs2))
}

// A replica that only ever sees the broadcast stream converges on the
// authority's exact state, score math included.
func TestEngine_ReplicaConvergesThroughApplyAll(t *testing.T) {
	authority := newTestEngine()
	replica := newTestEngine()

	feed := func(evs []ServerEvent) { replica.ApplyAll(evs) }

	feed(startRound(t, authority, t0))
	evs, _, err := authority.Advance(SePlayerChooseWord{Drawer: alice, Choice: WordHard}, t0+2_000)
	require.NoError(t, err)
	feed(evs)
	evs, _ = authority.TimedAdvance(TimedEvent{RoundID: 1, Phase: PhasePrePlay, Type: TimedPrePlayOver}, t0+7_000)
	feed(evs)
	evs, _, err = authority.Advance(SePlayerDrawOp{ID: alice, Op: DrawOp(`{"stroke":[1,2,3]}`)}, t0+9_000)
	require.NoError(t, err)
	feed(evs)
	evs, _ = authority.TimedAdvance(TimedEvent{RoundID: 1, Phase: PhasePlay, Type: TimedGiveHint}, t0+37_000)
	feed(evs)
	evs, _, err = authority.Advance(SePlayerGuessWord{Guesser: bob, Guess: authority.Words.Hard(7), AfterDrawOps: 1}, t0+40_000)
	require.NoError(t, err)
	feed(evs)

	assert.Empty(t, cmp.Diff(authority.Game, replica.Game))
	assert.Equal(t, PhasePostPlay, replica.Game.Round.Phase)
	assert.NotZero(t, replica.Game.Players[bob].GuessScore)
}

func TestEngine_SetGameReplacesEverything(t *testing.T) {
	authority := newTestEngine()
	startRound(t, authority, t0)

	replica := newTestEngine()
	replica.Apply(SeSetGame{PlayerID: bob, Game: authority.Game})

	assert.Empty(t, cmp.Diff(authority.Game, replica.Game))
}

func TestTimings_Play(t *testing.T) {
	tm := DefaultTimings()
	assert.Equal(t, 90*time.Second, tm.play(WordEasy))
	assert.Equal(t, 120*time.Second, tm.play(WordHard))
}
