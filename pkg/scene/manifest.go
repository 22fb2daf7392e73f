package scene

import (
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zurustar/twinscript/pkg/asm"
	"github.com/zurustar/twinscript/pkg/fileutil"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/script"
	"github.com/zurustar/twinscript/pkg/text"
	"github.com/zurustar/twinscript/pkg/world"
	"golang.org/x/text/encoding"
)

// ErrManifest is returned for a scene manifest that parses but cannot be
// built into a scene.
var ErrManifest = errors.New("scene: invalid manifest")

// Manifest is the TOML description of a scene.
//
//	name = "citadel"
//	game = "lba2"
//	points = [[0, 0, 0], [1000, 0, 0]]
//
//	[text]
//	bank = "text/citadel.bnk"
//
//	[[actor]]
//	name = "guard"
//	pos = [512, 0, 512]
//	life = { asm = "IF DISTANCE 0 < 1000 @end\nMESSAGE 3\nend:\nEND" }
//	move = { file = "guard.mov" }
type Manifest struct {
	Name          string        `toml:"name"`
	Game          string        `toml:"game"`
	Seed          uint64        `toml:"seed"`
	SideScene     bool          `toml:"side_scene"`
	Charset       string        `toml:"charset"`
	DialogLatency int           `toml:"dialog_latency"`
	Text          TextRef       `toml:"text"`
	Points        [][3]int      `toml:"points"`
	Hero          HeroState     `toml:"hero"`
	GameVars      []int         `toml:"game_vars"`
	SceneVars     []int         `toml:"scene_vars"`
	Actors        []ActorConfig `toml:"actor"`
}

// TextRef names a text bank and its optional message index.
type TextRef struct {
	Bank  string `toml:"bank"`
	Index string `toml:"index"`
}

// HeroState is the hero at scene start.
type HeroState struct {
	Gold        int   `toml:"gold"`
	LittleKeys  int   `toml:"little_keys"`
	Chapter     int   `toml:"chapter"`
	MagicLevel  int   `toml:"magic_level"`
	MagicPoints int   `toml:"magic_points"`
	Fuel        int   `toml:"fuel"`
	Behaviour   int   `toml:"behaviour"`
	Inventory   []int `toml:"inventory"`
}

// ActorConfig is one actor of the scene, in index order.
type ActorConfig struct {
	Name       string `toml:"name"`
	Pos        [3]int `toml:"pos"`
	Angle      int    `toml:"angle"`
	Speed      int    `toml:"speed"`
	Body       *int   `toml:"body"`
	Anim       int    `toml:"anim"`
	AnimFrames int    `toml:"anim_frames"`
	LifePoints *int   `toml:"life_points"`
	Dead       bool   `toml:"dead"`
	Hidden     bool   `toml:"hidden"`
	Life       Source `toml:"life"`
	Move       Source `toml:"move"`
}

// Source is where a script comes from. At most one field is set; none
// means an empty script. A file ending in .asm is assembled.
type Source struct {
	Hex  string `toml:"hex"`
	File string `toml:"file"`
	Asm  string `toml:"asm"`
}

// Scripts are the bytes of an actor's two programs.
type Scripts struct {
	Life []byte
	Move []byte
}

// Scene is a loaded manifest: the table it targets, its world and the
// scripts of every actor, indexed like the world's actors.
type Scene struct {
	Manifest *Manifest
	Table    *opcode.Table
	Charset  encoding.Encoding
	World    *World
	Dialog   *Dialog
	Scripts  []Scripts
}

// Parse decodes a manifest. Unknown keys are an error.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrManifest, strings.Join(keys, ", "))
	}
	if m.Game == "" {
		m.Game = string(opcode.GameLBA2)
	}
	return &m, nil
}

// Load reads the manifest at name from fsys and builds the scene. Script
// and text files are resolved relative to the manifest. opts are applied
// after the manifest's own settings.
func Load(fsys fileutil.FileSystem, name string, opts ...Option) (*Scene, error) {
	data, err := fsys.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", name, err)
	}
	return Build(m, fsys, path.Dir(name), opts...)
}

// Build turns a parsed manifest into a scene. Relative file names are
// joined to dir.
func Build(m *Manifest, fsys fileutil.FileSystem, dir string, opts ...Option) (*Scene, error) {
	t, err := opcode.ForGame(opcode.Game(m.Game))
	if err != nil {
		return nil, err
	}
	cs, err := script.CharsetByName(m.Charset)
	if err != nil {
		return nil, err
	}

	sc := &Scene{Manifest: m, Table: t, Charset: cs, Dialog: NewDialog(m.DialogLatency)}

	points := make([]world.Vec3, len(m.Points))
	for i, p := range m.Points {
		points[i] = world.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	base := []Option{
		WithGeometry(NewEuclid(points)),
		WithDialog(sc.Dialog),
		WithSideScene(m.SideScene),
	}
	if m.Seed != 0 {
		base = append(base, WithSeed(m.Seed))
	}
	if m.Text.Bank != "" {
		index := ""
		if m.Text.Index != "" {
			index = path.Join(dir, m.Text.Index)
		}
		bank, err := text.Load(fsys, path.Join(dir, m.Text.Bank), index, cs)
		if err != nil {
			return nil, err
		}
		base = append(base, WithResources(bank))
	}
	w := New(t.Game, append(base, opts...)...)
	sc.World = w

	applyHero(w.Hero(), m.Hero)
	if m.GameVars != nil {
		w.GameVars().Load(m.GameVars)
	}
	if m.SceneVars != nil {
		w.SceneVars().Load(m.SceneVars)
	}

	for i, ac := range m.Actors {
		w.Add(newActor(i, ac), ac.AnimFrames)
		life, err := sc.source(fsys, dir, opcode.Life, ac.Life)
		if err != nil {
			return nil, fmt.Errorf("actor %d (%s) life: %w", i, ac.Name, err)
		}
		move, err := sc.source(fsys, dir, opcode.Move, ac.Move)
		if err != nil {
			return nil, fmt.Errorf("actor %d (%s) move: %w", i, ac.Name, err)
		}
		sc.Scripts = append(sc.Scripts, Scripts{Life: life, Move: move})
	}
	w.log.Info("scene loaded", "name", m.Name, "game", t.Game, "actors", len(m.Actors))
	return sc, nil
}

func newActor(i int, ac ActorConfig) *world.Actor {
	a := world.NewActor(i)
	a.Name = ac.Name
	a.Pos = world.Vec3{X: ac.Pos[0], Y: ac.Pos[1], Z: ac.Pos[2]}
	a.Home = a.Pos
	a.Angle = world.NormalizeAngle(ac.Angle)
	a.Speed = ac.Speed
	a.Anim = ac.Anim
	a.Dead = ac.Dead
	a.Visible = !ac.Hidden
	if ac.Body != nil {
		a.Body = *ac.Body
	}
	if ac.LifePoints != nil {
		a.LifePoints = *ac.LifePoints
	}
	return a
}

func applyHero(h *world.Hero, s HeroState) {
	h.Gold = s.Gold
	h.LittleKeys = s.LittleKeys
	h.Chapter = s.Chapter
	h.MagicLevel = s.MagicLevel
	h.MagicPoints = s.MagicPoints
	h.Fuel = s.Fuel
	h.Behaviour = s.Behaviour
	copy(h.Inventory[:], s.Inventory)
}

func (sc *Scene) source(fsys fileutil.FileSystem, dir string, kind opcode.Kind, src Source) ([]byte, error) {
	set := 0
	for _, v := range []string{src.Hex, src.File, src.Asm} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("%w: hex, file and asm are exclusive", ErrManifest)
	}

	switch {
	case src.Hex != "":
		code, err := hex.DecodeString(strings.Join(strings.Fields(src.Hex), ""))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrManifest, err)
		}
		return code, nil
	case src.Asm != "":
		return asm.Assemble(sc.Table, kind, src.Asm)
	case strings.EqualFold(path.Ext(src.File), ".asm"):
		data, err := fsys.ReadFile(path.Join(dir, src.File))
		if err != nil {
			return nil, err
		}
		return asm.Assemble(sc.Table, kind, string(data))
	case src.File != "":
		s, err := script.NewLoaderFS(fsys).Load(kind, path.Join(dir, src.File))
		if err != nil {
			return nil, err
		}
		return s.Bytes(), nil
	}
	return nil, nil
}
