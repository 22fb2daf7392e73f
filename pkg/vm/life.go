package vm

import (
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/script"
	"github.com/zurustar/twinscript/pkg/world"
)

func registerLife() {
	// Comportments.
	handlers[opcode.OpBehaviour] = func(*exec) error { return nil }
	handlers[opcode.OpSetBehaviour] = func(x *exec) error {
		off := x.arg(0)
		if !x.p.script.InBounds(off) {
			return newJumpError(off, x.p.script.Len())
		}
		x.p.Behaviour = off
		return nil
	}
	handlers[opcode.OpSetBehaviourObj] = func(x *exec) error {
		ap, err := x.programs(x.arg(0))
		if err != nil {
			return err
		}
		return x.setBehaviour(ap.Life, x.arg(1))
	}
	handlers[opcode.OpEndBehaviour] = func(x *exec) error {
		x.yield(x.p.Behaviour)
		return nil
	}
	handlers[opcode.OpSaveBehaviour] = func(x *exec) error {
		x.p.SavedBehaviour = x.p.Behaviour
		return nil
	}
	handlers[opcode.OpRestoreBehaviour] = func(x *exec) error {
		x.p.Behaviour = x.p.SavedBehaviour
		return nil
	}
	handlers[opcode.OpSaveBehaviourObj] = func(x *exec) error {
		ap, err := x.programs(x.arg(0))
		if err != nil {
			return err
		}
		ap.Life.SavedBehaviour = ap.Life.Behaviour
		return nil
	}
	handlers[opcode.OpRestoreBehaviourObj] = func(x *exec) error {
		ap, err := x.programs(x.arg(0))
		if err != nil {
			return err
		}
		return x.setBehaviour(ap.Life, ap.Life.SavedBehaviour)
	}

	// Tracks.
	handlers[opcode.OpSetTrack] = func(x *exec) error {
		return x.setTrack(x.p.Actor, x.arg(0))
	}
	handlers[opcode.OpSetTrackObj] = func(x *exec) error {
		return x.setTrack(x.arg(0), x.arg(1))
	}
	handlers[opcode.OpStopTrack] = func(x *exec) error {
		return x.stopTrack(x.p.Actor)
	}
	handlers[opcode.OpStopTrackObj] = func(x *exec) error {
		return x.stopTrack(x.arg(0))
	}
	handlers[opcode.OpRestoreTrack] = func(x *exec) error {
		return x.restoreTrack(x.p.Actor)
	}
	handlers[opcode.OpRestoreTrackObj] = func(x *exec) error {
		return x.restoreTrack(x.arg(0))
	}
	handlers[opcode.OpTrackToVarGame] = func(x *exec) error {
		ap, err := x.programs(x.p.Actor)
		if err != nil {
			return err
		}
		x.e.world.GameVars().Set(x.arg(0), ap.Move.TrackIndex)
		return nil
	}
	handlers[opcode.OpVarGameToTrack] = func(x *exec) error {
		ap, err := x.programs(x.p.Actor)
		if err != nil {
			return err
		}
		idx := x.e.world.GameVars().Get(x.arg(0))
		off, ok := x.e.findTrack(ap.Move, idx)
		if !ok {
			x.e.log.Warn("track not found", "actor", x.p.Actor, "track", idx)
			return nil
		}
		if ap.Move.redirect(off) {
			ap.Move.TrackIndex = idx
			ap.Move.TrackOffset = off
		}
		return nil
	}

	// Actor state.
	handlers[opcode.OpBody] = onSelf(func(x *exec, a *world.Actor) { a.Body = x.arg(0) })
	handlers[opcode.OpBodyObj] = onObj(func(x *exec, a *world.Actor) { a.Body = x.arg(1) })
	handlers[opcode.OpAnim] = onSelf(func(x *exec, a *world.Actor) { a.SetAnim(x.arg(0)) })
	handlers[opcode.OpAnimObj] = onObj(func(x *exec, a *world.Actor) { a.SetAnim(x.arg(1)) })
	handlers[opcode.OpNoBody] = onSelf(func(_ *exec, a *world.Actor) { a.Body = -1 })
	handlers[opcode.OpInvisible] = onSelf(func(x *exec, a *world.Actor) { a.Visible = x.arg(0) == 0 })
	handlers[opcode.OpShadowObj] = onObj(func(x *exec, a *world.Actor) { a.Shadow = x.arg(1) != 0 })
	handlers[opcode.OpBeta] = onSelf(func(x *exec, a *world.Actor) { a.Angle = world.NormalizeAngle(x.arg(0)) })
	handlers[opcode.OpCanFall] = onSelf(func(x *exec, a *world.Actor) { a.CanFall = x.arg(0) != 0 })
	handlers[opcode.OpBackground] = onSelf(func(x *exec, a *world.Actor) { a.Background = x.arg(0) != 0 })
	handlers[opcode.OpObjCol] = onSelf(func(x *exec, a *world.Actor) { a.ObjCol = x.arg(0) != 0 })
	handlers[opcode.OpBrickCol] = onSelf(func(x *exec, a *world.Actor) { a.BrickCol = x.arg(0) != 0 })
	handlers[opcode.OpSetSprite] = onSelf(func(x *exec, a *world.Actor) { a.Sprite = x.arg(0) })
	handlers[opcode.OpSetFrame] = onSelf(func(x *exec, a *world.Actor) { a.Frame = x.arg(0) })
	handlers[opcode.OpSetArmor] = onSelf(func(x *exec, a *world.Actor) { a.Armor = x.arg(0) })
	handlers[opcode.OpSetArmorObj] = onObj(func(x *exec, a *world.Actor) { a.Armor = x.arg(1) })
	handlers[opcode.OpGiveBonus] = onSelf(func(x *exec, a *world.Actor) { a.Bonus = x.arg(0) })
	handlers[opcode.OpKillObj] = onObj(func(_ *exec, a *world.Actor) {
		a.Dead = true
		a.LifePoints = 0
	})
	handlers[opcode.OpSetLifePointObj] = onObj(func(x *exec, a *world.Actor) {
		a.LifePoints = clamp(x.arg(1), 0, world.MaxLifePoints)
	})
	handlers[opcode.OpSubLifePointObj] = onObj(func(x *exec, a *world.Actor) {
		a.LifePoints = clamp(a.LifePoints-x.arg(1), 0, world.MaxLifePoints)
	})
	handlers[opcode.OpAddLifePointObj] = onObj(func(x *exec, a *world.Actor) {
		a.LifePoints = clamp(a.LifePoints+x.arg(1), 0, world.MaxLifePoints)
	})
	handlers[opcode.OpHitObj] = onObj(func(x *exec, a *world.Actor) {
		a.HitBy = x.p.Actor
		if dmg := x.arg(1) - a.Armor; dmg > 0 {
			a.LifePoints = clamp(a.LifePoints-dmg, 0, world.MaxLifePoints)
		}
	})
	handlers[opcode.OpPosPoint] = func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		if pt, ok := x.e.world.Geometry().Point(x.arg(0)); ok {
			a.Pos = pt
		}
		return nil
	}
	handlers[opcode.OpSetDirMode] = func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		x.readDirMode(a)
		return nil
	}
	handlers[opcode.OpSetDirModeObj] = func(x *exec) error {
		a, err := x.obj(x.r.U8())
		if err != nil {
			return err
		}
		x.readDirMode(a)
		return nil
	}
	handlers[opcode.OpSetDoorLeft] = setDoor(world.Vec3{X: -1})
	handlers[opcode.OpSetDoorRight] = setDoor(world.Vec3{X: 1})
	handlers[opcode.OpSetDoorUp] = setDoor(world.Vec3{Z: -1})
	handlers[opcode.OpSetDoorDown] = setDoor(world.Vec3{Z: 1})

	// Variable banks.
	handlers[opcode.OpSetVarGame] = func(x *exec) error {
		x.e.world.GameVars().Set(x.arg(0), x.arg(1))
		return nil
	}
	handlers[opcode.OpAddVarGame] = func(x *exec) error {
		x.e.world.GameVars().Add(x.arg(0), x.arg(1))
		return nil
	}
	handlers[opcode.OpSubVarGame] = func(x *exec) error {
		x.e.world.GameVars().Add(x.arg(0), -x.arg(1))
		return nil
	}
	handlers[opcode.OpSetVarCube] = func(x *exec) error {
		x.e.world.SceneVars().Set(x.arg(0), x.arg(1))
		return nil
	}
	handlers[opcode.OpAddVarCube] = func(x *exec) error {
		x.e.world.SceneVars().Add(x.arg(0), x.arg(1))
		return nil
	}
	handlers[opcode.OpSubVarCube] = func(x *exec) error {
		x.e.world.SceneVars().Add(x.arg(0), -x.arg(1))
		return nil
	}

	// Hero and inventory.
	handlers[opcode.OpGiveGold] = onHero(func(x *exec, h *world.Hero) { h.Gold = clamp(h.Gold-x.arg(0), 0, world.MaxGold) })
	handlers[opcode.OpAddGold] = onHero(func(x *exec, h *world.Hero) { h.Gold = clamp(h.Gold+x.arg(0), 0, world.MaxGold) })
	handlers[opcode.OpUseLittleKey] = onHero(func(_ *exec, h *world.Hero) { h.LittleKeys = max(h.LittleKeys-1, 0) })
	handlers[opcode.OpIncChapter] = onHero(func(_ *exec, h *world.Hero) { h.Chapter++ })
	handlers[opcode.OpSetMagicLevel] = onHero(func(x *exec, h *world.Hero) {
		h.MagicLevel = x.arg(0)
		h.MagicPoints = h.MaxMagicPoints()
	})
	handlers[opcode.OpSubMagicPoint] = onHero(func(x *exec, h *world.Hero) { h.MagicPoints = max(h.MagicPoints-x.arg(0), 0) })
	handlers[opcode.OpAddFuel] = onHero(func(x *exec, h *world.Hero) { h.Fuel = clamp(h.Fuel+x.arg(0), 0, world.MaxFuel) })
	handlers[opcode.OpSubFuel] = onHero(func(x *exec, h *world.Hero) { h.Fuel = clamp(h.Fuel-x.arg(0), 0, world.MaxFuel) })
	handlers[opcode.OpIncCloverBox] = onHero(func(_ *exec, h *world.Hero) { h.CloverBoxes = min(h.CloverBoxes+1, world.MaxCloverBoxes) })
	handlers[opcode.OpSetUsedInventory] = onHero(func(x *exec, h *world.Hero) { h.UsedInventory = x.arg(0) })
	handlers[opcode.OpSetHeroBehaviour] = onHero(func(x *exec, h *world.Hero) { h.Behaviour = x.arg(0) })
	handlers[opcode.OpStateInventory] = onHero(func(x *exec, h *world.Hero) {
		if item := x.arg(0); item >= 0 && item < world.InventorySize {
			h.Inventory[item] = x.arg(1)
		}
	})
	handlers[opcode.OpFullPoint] = func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		a.LifePoints = world.MaxLifePoints
		h := x.e.world.Hero()
		h.MagicPoints = h.MaxMagicPoints()
		return nil
	}

	// Dialog and video.
	handlers[opcode.OpMessage] = func(x *exec) error {
		id := x.arg(0)
		x.await(func(d world.Dialog) world.Ticket {
			return d.Message(x.p.Actor, id, x.lookupText(id))
		})
		return nil
	}
	handlers[opcode.OpMessageObj] = func(x *exec) error {
		speaker, id := x.arg(0), x.arg(1)
		if _, err := x.obj(speaker); err != nil {
			return err
		}
		x.await(func(d world.Dialog) world.Ticket {
			return d.Message(speaker, id, x.lookupText(id))
		})
		return nil
	}
	handlers[opcode.OpAddChoice] = func(x *exec) error {
		if d := x.e.world.Dialog(); d != nil {
			d.AddChoice(x.arg(0), x.lookupText(x.arg(0)))
		}
		return nil
	}
	handlers[opcode.OpAskChoice] = func(x *exec) error {
		id := x.arg(0)
		x.await(func(d world.Dialog) world.Ticket {
			return d.AskChoice(x.p.Actor, id, x.lookupText(id))
		})
		return nil
	}
	handlers[opcode.OpAskChoiceObj] = func(x *exec) error {
		speaker, id := x.arg(0), x.arg(1)
		if _, err := x.obj(speaker); err != nil {
			return err
		}
		x.await(func(d world.Dialog) world.Ticket {
			return d.AskChoice(speaker, id, x.lookupText(id))
		})
		return nil
	}
	handlers[opcode.OpFoundObject] = func(x *exec) error {
		item := x.arg(0)
		first := x.p.Pending == 0
		x.await(func(d world.Dialog) world.Ticket {
			return d.FoundObject(x.p.Actor, item)
		})
		if first && item >= 0 && item < world.InventorySize {
			x.e.world.Hero().Inventory[item] = 1
		}
		return nil
	}
	handlers[opcode.OpPlayVideo] = func(x *exec) error {
		name := x.text
		x.await(func(d world.Dialog) world.Ticket {
			return d.PlayVideo(name)
		})
		return nil
	}
	handlers[opcode.OpEndMessage] = func(x *exec) error {
		if d := x.e.world.Dialog(); d != nil {
			d.CloseMessage(x.p.Actor)
		}
		return nil
	}
	handlers[opcode.OpEndMessageObj] = func(x *exec) error {
		if d := x.e.world.Dialog(); d != nil {
			d.CloseMessage(x.arg(0))
		}
		return nil
	}

	// Audio. Side-scene suppression is done by the dispatcher.
	handlers[opcode.OpSample] = onAudio(func(x *exec, a world.Audio) { a.PlaySample(x.arg(0), 1, x.p.Actor) })
	handlers[opcode.OpSampleRnd] = onAudio(func(x *exec, a world.Audio) { a.PlaySample(x.arg(0), 1, x.p.Actor) })
	handlers[opcode.OpSampleAlways] = onAudio(func(x *exec, a world.Audio) { a.PlaySample(x.arg(0), 0, x.p.Actor) })
	handlers[opcode.OpRepeatSample] = onAudio(func(x *exec, a world.Audio) { a.PlaySample(x.arg(0), x.arg(1), x.p.Actor) })
	handlers[opcode.OpSampleStop] = onAudio(func(x *exec, a world.Audio) { a.StopSample(x.arg(0)) })
	handlers[opcode.OpPlayMusic] = onAudio(func(x *exec, a world.Audio) { a.PlayMusic(x.arg(0)) })
	handlers[opcode.OpStopMusic] = onAudio(func(_ *exec, a world.Audio) { a.StopMusic() })

	// Scene and game.
	handlers[opcode.OpChangeCube] = func(x *exec) error {
		x.e.world.ChangeScene(x.arg(0))
		return nil
	}
	handlers[opcode.OpSetChangeCube] = func(x *exec) error {
		x.e.world.EnableSceneChange(x.arg(0), x.arg(1) != 0)
		return nil
	}
	handlers[opcode.OpSuicide] = func(x *exec) error {
		if a, err := x.self(); err == nil {
			a.Dead = true
			a.LifePoints = 0
		}
		x.p.terminate()
		return nil
	}
	handlers[opcode.OpGameOver] = endGame(world.EndingGameOver)
	handlers[opcode.OpTheEnd] = endGame(world.EndingTheEnd)

	handlers[opcode.OpPresent] = opPresent
	handlers[opcode.OpCamFollow] = opPresent
}

func onSelf(f func(x *exec, a *world.Actor)) handler {
	return func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		f(x, a)
		return nil
	}
}

// onObj applies f to the actor named by the first operand.
func onObj(f func(x *exec, a *world.Actor)) handler {
	return func(x *exec) error {
		a, err := x.obj(x.arg(0))
		if err != nil {
			return err
		}
		f(x, a)
		return nil
	}
}

func onHero(f func(x *exec, h *world.Hero)) handler {
	return func(x *exec) error {
		f(x, x.e.world.Hero())
		return nil
	}
}

func onAudio(f func(x *exec, a world.Audio)) handler {
	return func(x *exec) error {
		if a := x.e.world.Audio(); a != nil {
			f(x, a)
		}
		return nil
	}
}

func endGame(ending world.Ending) handler {
	return func(x *exec) error {
		x.e.world.EndGame(ending)
		x.yield(x.r.Pos())
		return nil
	}
}

func opPresent(x *exec) error {
	if pr := x.e.world.Presenter(); pr != nil {
		pr.Present(x.p.Actor, x.cmd.Name, x.args, x.text)
	}
	return nil
}

func setDoor(dir world.Vec3) handler {
	return onSelf(func(x *exec, a *world.Actor) {
		d := x.arg(0)
		a.Pos = a.Home.Add(world.Vec3{X: dir.X * d, Y: dir.Y * d, Z: dir.Z * d})
		a.DoorGoal = a.Pos
		a.DoorMoving = false
	})
}

func (x *exec) readDirMode(a *world.Actor) {
	a.DirMode = x.r.U8()
	a.DirTarget = world.NoActor
	if opcode.DirModeHasTarget(a.DirMode) {
		a.DirTarget = x.r.U8()
	}
}

func (x *exec) setBehaviour(p *Program, off int) error {
	if !p.script.InBounds(off) {
		return newJumpError(off, p.script.Len())
	}
	// 実行中の自分自身は SET_BEHAVIOUR と同じく記録だけ
	if p == x.p {
		p.Behaviour = off
		return nil
	}
	if p.redirect(off) {
		p.Behaviour = off
	}
	return nil
}

// setTrack restarts the MOVE program of an actor at a track offset; -1
// stops it instead.
func (x *exec) setTrack(actor, off int) error {
	ap, err := x.programs(actor)
	if err != nil {
		return err
	}
	mv := ap.Move
	if off == -1 {
		mv.Stopped = true
		return nil
	}
	if !mv.script.InBounds(off) {
		return newJumpError(off, mv.script.Len())
	}
	if !mv.redirect(off) {
		x.e.log.Debug("set track on terminated program ignored", "actor", actor, "offset", off)
	}
	return nil
}

func (x *exec) stopTrack(actor int) error {
	ap, err := x.programs(actor)
	if err != nil {
		return err
	}
	ap.Move.SavedTrackOffset = ap.Move.TrackOffset
	ap.Move.Stopped = true
	return nil
}

func (x *exec) restoreTrack(actor int) error {
	ap, err := x.programs(actor)
	if err != nil {
		return err
	}
	mv := ap.Move
	if mv.SavedTrackOffset < 0 {
		mv.Stopped = false
		return nil
	}
	mv.redirect(mv.SavedTrackOffset)
	return nil
}

// await drives a cmdState command: the first visit starts the UI request
// and parks; later visits park until the dialog reports completion.
func (x *exec) await(start func(d world.Dialog) world.Ticket) {
	d := x.e.world.Dialog()
	if d == nil {
		return
	}
	if x.p.Pending == 0 {
		if t := start(d); t != 0 {
			x.p.Pending = t
			x.park()
		}
		return
	}
	if !d.Done(x.p.Pending) {
		x.park()
		return
	}
	x.p.Pending = 0
}

func (x *exec) lookupText(id int) string {
	if res := x.e.world.Resources(); res != nil {
		if s, ok := res.Text(id); ok {
			return s
		}
	}
	return ""
}

// findTrack returns the offset of TRACK idx in a MOVE program.
func (e *Engine) findTrack(p *Program, idx int) (int, bool) {
	ins, err := script.NewDecoder(e.table, p.script, e.charset).All()
	if err != nil {
		e.log.Debug("track scan stopped early", "actor", p.Actor, "error", err)
	}
	for _, in := range ins {
		if in.Cmd.Op == opcode.OpTrack && len(in.Args) > 0 && in.Args[0] == idx {
			return in.Offset, true
		}
	}
	return 0, false
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
