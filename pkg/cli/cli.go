package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/zurustar/twinscript/pkg/logger"
)

// 環境変数 (コマンドラインフラグが優先)
const (
	EnvLogLevel = "TWINSCRIPT_LOG_LEVEL"
	EnvHeadless = "TWINSCRIPT_HEADLESS"
	EnvFrames   = "TWINSCRIPT_FRAMES"
)

// DefaultHeadlessFrames は --frames 未指定のヘッドレス実行のフレーム数
const DefaultHeadlessFrames = 600

// ErrMissingScene is returned when neither a scene nor a script to
// disassemble is given.
var ErrMissingScene = errors.New("missing scene manifest")

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	ScenePath   string        // シーンマニフェスト (.toml) のパス
	ConfigPath  string        // エンジン設定ファイル
	LogLevel    string        // ログレベル（debug, info, warn, error）
	LogFormat   string        // text または json
	Headless    bool          // ヘッドレスモード
	Frames      int           // ヘッドレスで実行するフレーム数
	Timeout     time.Duration // ビューアのタイムアウト（0は無制限）
	Game        string        // 設定ファイルのゲームを上書き
	Muted       bool          // 音声を出力しない
	Disassemble string        // 逆アセンブルするスクリプトファイル
	Kind        string        // 逆アセンブル対象のプログラム種別 (life, move)
	ShowHelp    bool          // ヘルプ表示フラグ
}

func newFlagSet(config *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("twinscript", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&config.ConfigPath, "config", "c", "", "エンジン設定ファイル (TOML)")
	fs.StringVarP(&config.LogLevel, "log-level", "l", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogFormat, "log-format", "text", "ログ形式（text, json）")
	fs.BoolVar(&config.Headless, "headless", false, "ヘッドレスモード（ウィンドウなし）")
	fs.IntVarP(&config.Frames, "frames", "n", 0, "ヘッドレスで実行するフレーム数")
	fs.DurationVarP(&config.Timeout, "timeout", "t", 0, "ビューアを自動終了するまでの時間")
	fs.StringVar(&config.Game, "game", "", "ゲーム (lba1, lba2)")
	fs.BoolVar(&config.Muted, "mute", false, "音声を出力しない")
	fs.StringVarP(&config.Disassemble, "disasm", "d", "", "スクリプトファイルを逆アセンブルして終了")
	fs.StringVar(&config.Kind, "kind", "life", "逆アセンブルするプログラム種別（life, move）")
	fs.BoolVarP(&config.ShowHelp, "help", "h", false, "ヘルプを表示")
	return fs
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	config := &Config{}
	fs := newFlagSet(config)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if config.ShowHelp {
		return config, nil
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !fs.Changed("log-level") {
		if v := os.Getenv(EnvLogLevel); v != "" {
			config.LogLevel = strings.ToLower(v)
		}
	}
	if !fs.Changed("headless") {
		if v := os.Getenv(EnvHeadless); v != "" {
			config.Headless = v == "1" || strings.EqualFold(v, "true")
		}
	}
	if !fs.Changed("frames") {
		if v := os.Getenv(EnvFrames); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %q", EnvFrames, v)
			}
			config.Frames = n
		}
	}

	if _, err := logger.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("%w (must be debug, info, warn, or error)", err)
	}
	switch strings.ToLower(config.LogFormat) {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format: %s (must be text or json)", config.LogFormat)
	}
	if config.Frames < 0 {
		return nil, fmt.Errorf("frames must be non-negative, got %d", config.Frames)
	}
	if config.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %s", config.Timeout)
	}
	config.Kind = strings.ToLower(config.Kind)
	if config.Kind != "life" && config.Kind != "move" {
		return nil, fmt.Errorf("invalid kind: %s (must be life or move)", config.Kind)
	}

	// 位置引数（シーンマニフェストのパス）
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected one scene manifest, got %d arguments", fs.NArg())
	}
	if fs.NArg() == 1 {
		config.ScenePath = fs.Arg(0)
	}
	if config.ScenePath == "" && config.Disassemble == "" {
		return nil, ErrMissingScene
	}
	if config.Headless && config.Frames == 0 {
		config.Frames = DefaultHeadlessFrames
	}

	return config, nil
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fs := newFlagSet(&Config{})
	fmt.Fprintf(w, `twinscript - actor behaviour script engine

Usage:
  twinscript [options] <scene.toml>
  twinscript --disasm <file> [--kind life|move] [--game lba1|lba2]

Arguments:
  scene.toml    シーンマニフェスト（アクター、LIFE/MOVE スクリプト、テキストバンク）

Options:
%s
Environment Variables:
  %s=1          ヘッドレスモードを有効化
  %s=<n>          ヘッドレスで実行するフレーム数
  %s=<level>   ログレベル

Examples:
  twinscript scenes/citadel.toml                    ビューアで実行
  twinscript --headless -n 300 scenes/citadel.toml  300フレーム実行して終了
  twinscript -d GUARD.LIF --game lba1               LBA1 の LIFE スクリプトを逆アセンブル
`, fs.FlagUsages(), EnvHeadless, EnvFrames, EnvLogLevel)
}
