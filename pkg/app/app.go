package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/zurustar/twinscript/pkg/asm"
	"github.com/zurustar/twinscript/pkg/audio"
	"github.com/zurustar/twinscript/pkg/cli"
	"github.com/zurustar/twinscript/pkg/config"
	"github.com/zurustar/twinscript/pkg/fileutil"
	"github.com/zurustar/twinscript/pkg/logger"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/scene"
	"github.com/zurustar/twinscript/pkg/script"
	"github.com/zurustar/twinscript/pkg/viewer"
	"github.com/zurustar/twinscript/pkg/vm"
	"github.com/zurustar/twinscript/pkg/world"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config   *cli.Config
	settings *config.Config
	log      *slog.Logger
	stdout   io.Writer
	logOut   io.Writer
}

// New Applicationを作成（stdout にはヘルプと逆アセンブル結果、logOut にはログを出力）
func New(stdout, logOut io.Writer) *Application {
	return &Application{stdout: stdout, logOut: logOut}
}

// Result ヘッドレス実行の結果
type Result struct {
	Frames    int
	Live      int
	Ending    world.Ending
	NextScene int
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 3. 設定ファイルの読み込み
	if err := app.loadSettings(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if app.config.Disassemble != "" {
		return app.disassemble(app.config.Disassemble)
	}

	app.log.Info("Application started", "scene", app.config.ScenePath, "headless", app.config.Headless)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 4. 音声システムとシーンの読み込み
	sys, err := app.newAudio()
	if err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}
	defer sys.Close()

	sc, err := app.loadScene(app.config.ScenePath, scene.WithAudio(sys))
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}

	// 5. スクリプトをエンジンに読み込む
	engine, err := app.newEngine(sc)
	if err != nil {
		return fmt.Errorf("failed to load scripts: %w", err)
	}

	// 6. 実行
	if app.config.Headless {
		res, err := app.runHeadless(ctx, engine, sc, sys, app.config.Frames)
		if err != nil {
			return err
		}
		app.log.Info("Headless run finished", "frames", res.Frames, "live", res.Live,
			"ending", res.Ending.String(), "next_scene", res.NextScene)
		return nil
	}

	g := viewer.New(ctx, engine, sc, sys, viewer.Options{
		Width:   app.settings.Viewer.Width,
		Height:  app.settings.Viewer.Height,
		Scale:   app.settings.Viewer.Scale,
		Timeout: app.config.Timeout,
	})
	if err := viewer.Run(g, "twinscript - "+sc.Manifest.Name); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLoggerWithFormat(app.config.LogLevel, app.config.LogFormat, app.logOut); err != nil {
		return err
	}
	app.log = logger.Component("app")
	return nil
}

// loadSettings 設定ファイルを読み込み、フラグで上書きする
func (app *Application) loadSettings() error {
	path := app.config.ConfigPath
	if path == "" {
		path = config.DefaultFileName
	}
	settings, err := config.Load(path)
	if err != nil {
		return err
	}
	if app.config.Game != "" {
		settings.Engine.Game = strings.ToLower(app.config.Game)
	}
	if app.config.Muted {
		settings.Audio.Muted = true
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	app.settings = settings
	if settings.Path != "" {
		app.log.Debug("Config loaded", "path", settings.Path)
	}
	return nil
}

// newAudio シーンのディレクトリを基準に音声システムを作成
// ヘッドレスモードでは音を出さず、それ以外では Ebitengine のコンテキストを開いて
// 音楽用の SoundFont を探す
func (app *Application) newAudio() (*audio.System, error) {
	dir := filepath.Dir(app.config.ScenePath)
	opts := []audio.Option{
		audio.WithMuted(app.settings.Audio.Muted),
		audio.WithPatterns(app.settings.Audio.SamplePattern, app.settings.Audio.MusicPattern),
	}
	if !app.config.Headless {
		opts = append(opts, audio.WithContext(ebaudio.NewContext(audio.SampleRate)))
		if loc := findSoundFont(app.settings.Audio.SoundFont, dir); loc != nil {
			sf, err := loc.Load()
			if err != nil {
				return nil, err
			}
			opts = append(opts, audio.WithSoundFont(sf))
		} else {
			app.log.Warn("No SoundFont found, music disabled")
		}
	}
	return audio.New(fileutil.NewRealFS(dir), opts...), nil
}

// loadScene シーンマニフェストを読み込む
// マニフェスト側の seed と charset が設定ファイルより優先される
func (app *Application) loadScene(path string, opts ...scene.Option) (*scene.Scene, error) {
	fsys := fileutil.NewRealFS(filepath.Dir(path))
	name := filepath.Base(path)
	data, err := fsys.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	m, err := scene.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if m.Seed == 0 {
		m.Seed = app.settings.Engine.Seed
	}
	if m.Charset == "" {
		m.Charset = app.settings.Engine.Charset
	}
	if !strings.EqualFold(m.Game, app.settings.Engine.Game) {
		app.log.Warn("Scene targets a different game than the config", "scene", m.Game, "config", app.settings.Engine.Game)
	}
	return scene.Build(m, fsys, ".", opts...)
}

// newEngine エンジンを作成し、全アクターのスクリプトを読み込む
func (app *Application) newEngine(sc *scene.Scene) (*vm.Engine, error) {
	engine := vm.New(sc.Table, sc.World,
		vm.WithMaxInstructions(app.settings.Engine.MaxInstructionsPerFrame),
		vm.WithFrameDuration(app.settings.FrameDuration()),
		vm.WithCharset(sc.Charset),
	)
	for i, s := range sc.Scripts {
		if _, err := engine.Load(i, s.Life, s.Move); err != nil {
			return nil, fmt.Errorf("actor %d: %w", i, err)
		}
		app.log.Debug("Scripts loaded", "actor", i, "life", len(s.Life), "move", len(s.Move))
	}
	return engine, nil
}

// runHeadless エンジンを最大 frames フレーム進める
// ゲーム終了、シーン切り替え要求、または動作中のアクターがいなくなった時点で止まる
func (app *Application) runHeadless(ctx context.Context, engine *vm.Engine, sc *scene.Scene, sys *audio.System, frames int) (Result, error) {
	res := Result{NextScene: -1}
	for res.Frames < frames {
		if err := engine.Frame(ctx); err != nil {
			return res, err
		}
		sys.Update()
		res.Frames++

		if sc.World.Ending() != 0 {
			break
		}
		if next, ok := sc.World.NextScene(); ok {
			res.NextScene = next
			break
		}
		if engine.Live() == 0 {
			app.log.Info("No live actors left", "frame", res.Frames)
			break
		}
	}
	res.Live = engine.Live()
	res.Ending = sc.World.Ending()
	return res, nil
}

// disassemble スクリプトファイルの逆アセンブル結果を出力
func (app *Application) disassemble(path string) error {
	table, err := app.settings.Table()
	if err != nil {
		return err
	}
	cs, err := script.CharsetByName(app.settings.Engine.Charset)
	if err != nil {
		return err
	}
	kind := opcode.Life
	if app.config.Kind == "move" {
		kind = opcode.Move
	}
	s, err := script.NewLoader(filepath.Dir(path)).Load(kind, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	_, err = io.WriteString(app.stdout, asm.DisassembleScript(table, s, cs))
	return err
}
