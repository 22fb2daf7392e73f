// Package viewer shows a running scene from above: one square per actor,
// coloured by the state of its LIFE program, with a state overlay. Each
// ebiten Update steps the engine by one frame.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/zurustar/twinscript/pkg/logger"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/scene"
	"github.com/zurustar/twinscript/pkg/vm"
	"github.com/zurustar/twinscript/pkg/world"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// 表示色
var (
	backgroundColor = colornames.Midnightblue
	gridColor       = color.RGBA{0x30, 0x30, 0x60, 0xFF}
	headingColor    = colornames.White
	labelColor      = colornames.Lightgray
	messageColor    = colornames.Khaki
	defaultFace     = text.NewGoXFace(basicfont.Face7x13)
)

const (
	actorSize   = 10  // アクターの四角形の一辺（ピクセル）
	headingLen  = 14  // 向きを示す線の長さ
	gridSpacing = 512 // ワールド座標でのグリッド間隔
	lineHeight  = 16  // ebitenutil.DebugPrintAt の行の高さ
)

// AudioUpdater is the audio system's per-frame hook.
type AudioUpdater interface {
	Update()
}

// Options configures a Game.
type Options struct {
	Width   int
	Height  int
	Scale   float64       // ワールド座標1単位あたりのピクセル数
	Timeout time.Duration // 0 は無制限
}

// Game implements ebiten.Game over one scene.
type Game struct {
	engine *vm.Engine
	world  *scene.World
	dialog *scene.Dialog
	audio  AudioUpdater
	opts   Options
	log    *slog.Logger

	ctx     context.Context
	start   time.Time
	paused  bool
	step    bool
	lastErr error
}

// New creates a viewer. audio may be nil.
func New(ctx context.Context, engine *vm.Engine, sc *scene.Scene, audio AudioUpdater, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = 0.25
	}
	return &Game{
		engine: engine,
		world:  sc.World,
		dialog: sc.Dialog,
		audio:  audio,
		opts:   opts,
		log:    logger.Component("viewer"),
		ctx:    ctx,
		start:  time.Now(),
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game, title string) error {
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.DefaultTPS)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.lastErr
}

// Update ゲームロジックの更新（Ebitengineが毎フレーム呼び出す）
func (g *Game) Update() error {
	if g.opts.Timeout > 0 && time.Since(g.start) >= g.opts.Timeout {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.step = true
	}
	// Enter で表示中のメッセージを閉じる
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if r, ok := g.openRequest(); ok {
			g.dialog.Complete(r.Ticket)
		}
	}
	return g.tick()
}

// tick advances the scene by one frame unless paused.
func (g *Game) tick() error {
	if g.paused && !g.step {
		return nil
	}
	g.step = false

	if err := g.engine.Frame(g.ctx); err != nil {
		g.lastErr = err
		return ebiten.Termination
	}
	if g.audio != nil {
		g.audio.Update()
	}
	if ending := g.world.Ending(); ending != 0 {
		g.log.Info("game ended, pausing", "ending", ending.String())
		g.paused = true
	}
	return nil
}

// openRequest returns the newest dialog request still waiting.
func (g *Game) openRequest() (scene.Request, bool) {
	reqs := g.dialog.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if g.dialog.Pending(reqs[i].Ticket) {
			return reqs[i], true
		}
	}
	return scene.Request{}, false
}

// Draw 画面描画（Ebitengineが毎フレーム呼び出す）
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	g.drawGrid(screen, w, h)
	for _, a := range g.world.Actors() {
		g.drawActor(screen, a, w, h)
	}
	g.drawOverlay(screen, h)
}

func (g *Game) drawGrid(screen *ebiten.Image, w, h int) {
	span := int(float64(max(w, h)) / g.opts.Scale)
	for c := -span; c <= span; c += gridSpacing {
		x, y := WorldToScreen(world.Vec3{X: c, Z: c}, g.opts.Scale, w, h)
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(h), 1, gridColor, false)
		vector.StrokeLine(screen, 0, float32(y), float32(w), float32(y), 1, gridColor, false)
	}
}

func (g *Game) drawActor(screen *ebiten.Image, a *world.Actor, w, h int) {
	x, y := WorldToScreen(a.Pos, g.opts.Scale, w, h)
	var life vm.State = vm.Terminated
	if ap, ok := g.engine.Programs(a.Index); ok {
		life = ap.Program(opcode.Life).State
	}
	clr := ActorColor(a, life)

	vector.FillRect(screen, float32(x-actorSize/2), float32(y-actorSize/2), actorSize, actorSize, clr, false)

	// 向き: 角度 0 は +Z (画面下)、1024 で +X
	rad := float64(a.Angle) * 2 * math.Pi / world.FullTurn
	hx := x + headingLen*math.Sin(rad)
	hy := y + headingLen*math.Cos(rad)
	vector.StrokeLine(screen, float32(x), float32(y), float32(hx), float32(hy), 1, headingColor, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(x+actorSize, y-actorSize)
	op.ColorScale.ScaleWithColor(labelColor)
	text.Draw(screen, ActorLabel(a), defaultFace, op)
}

func (g *Game) drawOverlay(screen *ebiten.Image, h int) {
	status := fmt.Sprintf("frame %d  live actors %d  TPS %.0f", g.engine.FrameCount(), g.engine.Live(), ebiten.ActualTPS())
	if g.paused {
		status += "  [paused: space resume, n step]"
	}
	ebitenutil.DebugPrintAt(screen, status, 4, 4)

	if r, ok := g.openRequest(); ok {
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, float64(h-2*lineHeight))
		op.ColorScale.ScaleWithColor(messageColor)
		text.Draw(screen, RequestLine(r)+"  [enter]", defaultFace, op)
	}
}

// Layout はウィンドウサイズに合わせて論理画面サイズを返す
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// WorldToScreen maps the X/Z plane onto the screen, origin at the centre,
// X to the right and Z downwards.
func WorldToScreen(p world.Vec3, scale float64, w, h int) (float64, float64) {
	return float64(w)/2 + float64(p.X)*scale, float64(h)/2 + float64(p.Z)*scale
}

// ActorColor picks the square colour of an actor from its LIFE state.
func ActorColor(a *world.Actor, life vm.State) color.Color {
	switch {
	case a.Dead:
		return colornames.Dimgray
	case !a.Visible:
		return colornames.Slategray
	}
	switch life {
	case vm.Running:
		return colornames.Limegreen
	case vm.Waiting:
		return colornames.Gold
	default:
		return colornames.Tomato
	}
}

// ActorLabel is the text drawn next to an actor.
func ActorLabel(a *world.Actor) string {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("#%d", a.Index)
	}
	return fmt.Sprintf("%s b%d a%d", name, a.Body, a.Anim)
}

// RequestLine renders a dialog request for the message bar.
func RequestLine(r scene.Request) string {
	var sb strings.Builder
	sb.WriteString(r.Kind)
	if r.Actor != world.NoActor {
		fmt.Fprintf(&sb, " #%d", r.Actor)
	}
	switch {
	case r.Text != "":
		fmt.Fprintf(&sb, ": %s", r.Text)
	case r.TextID != 0:
		fmt.Fprintf(&sb, ": %d", r.TextID)
	}
	return sb.String()
}
