package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zurustar/twinscript/pkg/asm"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/scene"
	"github.com/zurustar/twinscript/pkg/world"
)

func TestBehaviour_EndBehaviourRestartsComportment(t *testing.T) {
	f := newFixture(t)
	f.spawn(lifeCode(func(b *asm.Builder) {
		b.Op("SET_BEHAVIOUR", asm.Ref("patrol")).
			Op("END_BEHAVIOUR").
			Label("patrol").
			Op("ADD_VAR_GAME", 0, 1).
			Op("END_BEHAVIOUR")
	}), nil)

	f.run(3)
	assert.Equal(t, 2, f.gameVar(0))
	assert.Equal(t, 4, f.life(0).Behaviour)
	assert.Equal(t, 4, f.life(0).ResumeOffset)
}

func TestBehaviour_SetBehaviourObj(t *testing.T) {
	f := newFixture(t)
	guard := lifeCode(func(b *asm.Builder) {
		b.Op("END").
			Label("alarm").
			Op("SET_VAR_GAME", 0, 7).
			Op("END")
	})
	f.spawn(lifeCode(func(b *asm.Builder) { b.Op("SET_BEHAVIOUR_OBJ", 1, 1).Op("END_LIFE") }), nil)
	f.spawn(guard, nil)

	f.frame()
	assert.Equal(t, 7, f.gameVar(0), "actor 1 runs its new comportment in the same frame")
	assert.Equal(t, 1, f.life(1).Behaviour)
}

func TestBehaviour_SetBehaviourObjOnSelf(t *testing.T) {
	b := asm.NewBuilder(opcode.LBA2, opcode.Life).
		Switch("VAR_GAME", 0).
		Op("SET_BEHAVIOUR_OBJ", 0, asm.Ref("alarm")).
		Case("CASE", "==", 0, "out").
		Op("SET_VAR_GAME", 1, 5).
		Label("out").
		Op("END_SWITCH").
		Op("END_BEHAVIOUR").
		Label("alarm").
		Op("ADD_VAR_GAME", 2, 1).
		Op("END_LIFE")
	alarm, ok := b.Offset("alarm")
	require.True(t, ok)

	f := newFixture(t)
	f.spawn(b.MustBytes(), nil)

	f.frame()
	life := f.life(0)
	require.False(t, life.Terminated(), f.logs.String())
	assert.Equal(t, 5, f.gameVar(1), "the switch survives the self redirect")
	assert.Equal(t, alarm, life.Behaviour)
	assert.Equal(t, alarm, life.ResumeOffset)
	assert.NotContains(t, f.logs.String(), "NO_SWITCH")

	f.frame()
	assert.Equal(t, 1, f.gameVar(2), "the next frame starts the new comportment")
	assert.True(t, life.Terminated())
}

func TestSetTrack_Variants(t *testing.T) {
	move := moveCode(func(b *asm.Builder) {
		b.Op("TRACK", 0).Op("WAIT_ANIM").Op("GOTO", 0).
			Op("TRACK", 1).Op("BODY", 2).Op("STOP")
	})

	t.Run("minus one stops the track", func(t *testing.T) {
		f := newFixture(t)
		f.spawn(lifeCode(func(b *asm.Builder) { b.Op("SET_TRACK", -1).Op("END_LIFE") }), move)
		f.run(5)
		assert.True(t, f.move(0).Stopped)
		assert.Equal(t, 0, f.move(0).Steps)
		assert.False(t, f.move(0).Terminated())
	})

	t.Run("out of bounds faults the caller", func(t *testing.T) {
		f := newFixture(t)
		f.spawn(lifeCode(func(b *asm.Builder) { b.Op("SET_TRACK", 500) }), move)
		f.frame()
		assert.True(t, f.life(0).Terminated())
		assert.False(t, f.move(0).Terminated())
	})

	t.Run("stop and restore", func(t *testing.T) {
		f := newFixture(t)
		f.spawn(lifeCode(func(b *asm.Builder) {
			b.If("IF", "VAR_GAME", 0, "==", 1, "restore").
				Op("STOP_CURRENT_TRACK").
				Op("END").
				Label("restore").
				If("IF", "VAR_GAME", 0, "==", 2, "end").
				Op("RESTORE_LAST_TRACK").
				Op("SET_VAR_GAME", 0, 0).
				Label("end").
				Op("END")
		}), move)

		f.frame()
		mv := f.move(0)
		assert.Equal(t, 0, mv.TrackOffset)
		assert.False(t, mv.Stopped)

		f.world.GameVars().Set(0, 1)
		f.frame()
		assert.True(t, mv.Stopped)
		assert.Equal(t, 0, mv.SavedTrackOffset)
		steps := mv.Steps

		f.run(3)
		assert.Equal(t, steps, mv.Steps, "a stopped track does not run")

		f.world.GameVars().Set(0, 2)
		f.frame()
		assert.False(t, mv.Stopped)
		assert.Greater(t, mv.Steps, steps)
		assert.Equal(t, 0, mv.TrackIndex)
	})

	t.Run("track to var and back", func(t *testing.T) {
		f := newFixture(t)
		f.world.GameVars().Set(4, 1)
		f.spawn(lifeCode(func(b *asm.Builder) {
			b.Op("VAR_GAME_TO_TRACK", 4).
				Op("TRACK_TO_VAR_GAME", 5).
				Op("END_LIFE")
		}), move)
		f.frame()
		assert.Equal(t, 1, f.gameVar(5))
		assert.Equal(t, 2, f.actor(0).Body)
	})
}

func TestMessage_ParksUntilDialogDone(t *testing.T) {
	d := scene.NewDialog(2)
	f := newFixture(t, scene.WithDialog(d), scene.WithResources(texts{12: "Halt!"}))
	f.spawn(lifeCode(func(b *asm.Builder) {
		b.Op("MESSAGE", 12).Op("SET_VAR_GAME", 0, 1).Op("END_LIFE")
	}), nil)

	f.frame()
	p := f.life(0)
	assert.Equal(t, Waiting, p.State)
	assert.Equal(t, 0, p.ResumeOffset)
	assert.NotZero(t, p.Pending)

	f.frame()
	assert.Equal(t, 0, f.gameVar(0))

	f.frame()
	assert.Equal(t, 1, f.gameVar(0))
	assert.True(t, p.Terminated())

	require.Len(t, d.Requests(), 1, "the request is made once")
	assert.Equal(t, scene.Request{Ticket: 1, Kind: "message", Actor: 0, TextID: 12, Text: "Halt!"}, d.Requests()[0])
}

func TestMessageObj_MissingSpeakerFaults(t *testing.T) {
	f := newFixture(t)
	f.spawn(lifeCode(func(b *asm.Builder) { b.Op("MESSAGE_OBJ", 4, 1) }), nil)
	f.frame()
	assert.True(t, f.life(0).Terminated())
	assert.Contains(t, f.logs.String(), string(ErrorMissingActor))
}

func TestAskChoice(t *testing.T) {
	d := scene.NewDialog(0)
	d.Answer(41)
	f := newFixture(t, scene.WithDialog(d))
	f.spawn(lifeCode(func(b *asm.Builder) {
		b.Op("ADD_CHOICE", 40).
			Op("ADD_CHOICE", 41).
			Op("ASK_CHOICE", 39).
			If("IF", "CHOICE", 0, "==", 41, "end").
			Op("SET_VAR_GAME", 0, 1).
			Label("end").
			Op("END_LIFE")
	}), nil)

	f.frame()
	assert.Equal(t, 0, f.gameVar(0))
	f.frame()
	assert.Equal(t, 1, f.gameVar(0))
	assert.Len(t, d.Requests(), 1)
}

func TestFoundObject(t *testing.T) {
	d := scene.NewDialog(1)
	f := newFixture(t, scene.WithDialog(d))
	f.spawn(lifeCode(func(b *asm.Builder) { b.Op("FOUND_OBJECT", 3).Op("END_LIFE") }), nil)

	f.frame()
	assert.Equal(t, 1, f.world.Hero().Inventory[3], "the item is given on the first visit")
	f.world.Hero().Inventory[3] = 0
	f.run(3)
	assert.Equal(t, 0, f.world.Hero().Inventory[3], "and only then")
	assert.True(t, f.life(0).Terminated())
}

func TestPlayVideo(t *testing.T) {
	d := scene.NewDialog(0)
	f := newFixture(t, scene.WithDialog(d))
	f.spawn(lifeCode(func(b *asm.Builder) { b.Op("PLAY_SMACKER", "intro").Op("END_LIFE") }),
		moveCode(func(b *asm.Builder) { b.Op("PLAY_ACF", "bridge").Op("STOP") }))

	f.run(2)
	require.Len(t, d.Requests(), 2)
	assert.Equal(t, "intro", d.Requests()[0].Text)
	assert.Equal(t, "bridge", d.Requests()[1].Text)
	assert.True(t, f.life(0).Terminated())
	assert.True(t, f.move(0).Terminated())
}

func TestSideScene_SkipsAudioButKeepsAlignment(t *testing.T) {
	src := lifeCode(func(b *asm.Builder) {
		b.Op("SAMPLE", 5).
			Op("REPEAT_SAMPLE", 6, 3).
			Op("SET_VAR_GAME", 0, 1).
			Op("END_LIFE")
	})

	for _, side := range []bool{false, true} {
		f := newFixture(t, scene.WithSideScene(side))
		f.spawn(src, nil)
		f.frame()

		assert.Equal(t, 1, f.gameVar(0), "side=%v", side)
		assert.True(t, f.life(0).Terminated())
		if side {
			assert.Empty(t, f.rec.Events())
			assert.Equal(t, 2, f.life(0).Steps, "skipped commands are not dispatched")
		} else {
			assert.Equal(t, []scene.Event{
				{Kind: "PLAY_SAMPLE", Actor: 0, Args: []int{5, 1}},
				{Kind: "PLAY_SAMPLE", Actor: 0, Args: []int{6, 3}},
			}, f.rec.Events())
		}
	}
}

func TestSuicide(t *testing.T) {
	f := newFixture(t)
	f.spawn(lifeCode(func(b *asm.Builder) { b.Op("SUICIDE").Op("SET_VAR_GAME", 0, 1) }),
		moveCode(func(b *asm.Builder) { b.Op("BODY", 3).Op("STOP") }))
	f.frame()

	a := f.actor(0)
	assert.True(t, a.Dead)
	assert.Equal(t, 0, a.LifePoints)
	assert.True(t, f.life(0).Terminated())
	assert.True(t, f.move(0).Terminated(), "a dead actor's MOVE never runs")
	assert.Equal(t, -1, a.Body)
	assert.Equal(t, 0, f.gameVar(0))
}

func TestGameOver(t *testing.T) {
	f := newFixture(t)
	f.spawn(lifeCode(func(b *asm.Builder) { b.Op("GAME_OVER").Op("SET_VAR_GAME", 0, 1).Op("END_LIFE") }), nil)
	f.frame()
	assert.Equal(t, world.EndingGameOver, f.world.Ending())
	assert.Equal(t, 0, f.gameVar(0), "GAME_OVER yields")
	assert.Equal(t, 1, f.life(0).ResumeOffset)
}

func TestActorState(t *testing.T) {
	f := newFixture(t)
	f.spawn(lifeCode(func(b *asm.Builder) {
		b.Op("BODY", 3).
			Op("ANIM", 12).
			Op("SET_DIRMODE", 2, 1).
			Op("SET_DIRMODE_OBJ", 1, 1).
			Op("BETA", 5000).
			Op("HIT_OBJ", 1, 30).
			Op("ADD_GOLD_PIECES", 2000).
			Op("SET_VAR_CUBE", 2, 9).
			Op("FADE_TO_PAL", 4).
			Op("END_LIFE")
	}), nil)
	f.spawn(nil, nil)
	f.actor(1).Armor = 10
	f.frame()

	a, b := f.actor(0), f.actor(1)
	assert.Equal(t, 3, a.Body)
	assert.Equal(t, 12, a.Anim)
	assert.Equal(t, 2, a.DirMode)
	assert.Equal(t, 1, a.DirTarget)
	assert.Equal(t, 1, b.DirMode)
	assert.Equal(t, world.NoActor, b.DirTarget)
	assert.Equal(t, 5000-world.FullTurn, a.Angle)
	assert.Equal(t, 0, b.HitBy)
	assert.Equal(t, 255-20, b.LifePoints)
	assert.Equal(t, world.MaxGold, f.world.Hero().Gold)
	assert.Equal(t, 9, f.world.SceneVars().Get(2))
	assert.Equal(t, []scene.Event{{Kind: "FADE_TO_PAL", Actor: 0, Args: []int{4}}}, f.rec.Events())
	assert.True(t, f.life(0).Terminated(), "operands stayed aligned")
}

func TestSceneChange(t *testing.T) {
	f := newFixture(t)
	f.spawn(lifeCode(func(b *asm.Builder) {
		b.Op("SET_CHANGE_CUBE", 2, 0).Op("CHANGE_CUBE", 14).Op("END_LIFE")
	}), nil)
	f.frame()
	next, ok := f.world.NextScene()
	assert.True(t, ok)
	assert.Equal(t, 14, next)
	assert.False(t, f.world.SceneChangeEnabled(2))
}
