// Package audio plays the samples and music requested by actor scripts.
// Samples are WAV files decoded by Ebitengine; music is MIDI rendered by
// go-meltysynth. Without an audio context the system runs silent but still
// validates files and tracks what would be playing, which is what headless
// runs and tests use.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sinshu/go-meltysynth/meltysynth"
	"github.com/zurustar/twinscript/pkg/fileutil"
	"github.com/zurustar/twinscript/pkg/logger"
)

// SampleRate is the output rate of both samples and synthesized music.
const SampleRate = 44100

// Default file layouts relative to the audio file system.
const (
	DefaultSamplePattern = "samples/%03d.wav"
	DefaultMusicPattern  = "music/%02d.mid"
)

var (
	ErrSampleNotFound = errors.New("sample not found")
	ErrInvalidSample  = errors.New("invalid WAV sample")
	ErrMusicNotFound  = errors.New("music not found")
	ErrInvalidMusic   = errors.New("invalid MIDI file")
	// ErrNoSoundFont is returned when music is requested with output enabled
	// but no SoundFont was configured.
	ErrNoSoundFont       = errors.New("SoundFont is required for music playback")
	ErrSoundFontNotFound = errors.New("SoundFont file not found")
)

// System implements world.Audio.
type System struct {
	fsys          fileutil.FileSystem
	ctx           *audio.Context
	soundFont     *meltysynth.SoundFont
	samplePattern string
	musicPattern  string
	log           *slog.Logger

	mu      sync.Mutex
	muted   bool
	samples *samplePlayer
	music   *musicPlayer
}

// Option configures a System.
type Option func(*System)

// WithContext enables audible output through an Ebitengine audio context.
func WithContext(ctx *audio.Context) Option {
	return func(s *System) { s.ctx = ctx }
}

// WithSoundFont sets the SoundFont used to synthesize music.
func WithSoundFont(sf *meltysynth.SoundFont) Option {
	return func(s *System) { s.soundFont = sf }
}

// WithMuted starts the system muted.
func WithMuted(muted bool) Option {
	return func(s *System) { s.muted = muted }
}

// WithPatterns overrides the fmt patterns mapping sample and music ids to
// file names.
func WithPatterns(sample, music string) Option {
	return func(s *System) {
		if sample != "" {
			s.samplePattern = sample
		}
		if music != "" {
			s.musicPattern = music
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) { s.log = l }
}

// New creates an audio system reading files from fsys.
func New(fsys fileutil.FileSystem, opts ...Option) *System {
	s := &System{
		fsys:          fsys,
		samplePattern: DefaultSamplePattern,
		musicPattern:  DefaultMusicPattern,
		log:           logger.Component("audio"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.samples = newSamplePlayer(s.ctx)
	s.music = newMusicPlayer(s.ctx, s.soundFont)
	s.samples.setMuted(s.muted)
	s.music.setMuted(s.muted)
	return s
}

// PlaySample plays sample id repeat times (0 loops until stopped). Failures
// are logged; scripts never see audio errors.
func (s *System) PlaySample(id, repeat, actor int) {
	if err := s.playSample(id, repeat); err != nil {
		s.log.Warn("sample not played", "id", id, "actor", actor, "error", err)
	}
}

func (s *System) playSample(id, repeat int) error {
	name := fmt.Sprintf(s.samplePattern, id)
	data, err := s.fsys.ReadFile(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSampleNotFound, name)
	}
	return s.samples.play(id, repeat, data)
}

func (s *System) StopSample(id int) {
	s.samples.stop(id)
}

// PlayMusic replaces the current track with music id.
func (s *System) PlayMusic(id int) {
	if err := s.playMusic(id); err != nil {
		s.log.Warn("music not played", "id", id, "error", err)
	}
}

func (s *System) playMusic(id int) error {
	name := fmt.Sprintf(s.musicPattern, id)
	data, err := s.fsys.ReadFile(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMusicNotFound, name)
	}
	return s.music.play(id, data)
}

func (s *System) StopMusic() {
	s.music.stop()
}

// SetMuted silences or restores all output.
func (s *System) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
	s.samples.setMuted(muted)
	s.music.setMuted(muted)
}

func (s *System) IsMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Update is called once per frame to restart repeating samples and drop
// finished ones.
func (s *System) Update() {
	s.samples.update()
	s.music.update()
}

// ActiveSamples returns the ids of samples still playing, in ascending order.
func (s *System) ActiveSamples() []int {
	ids := s.samples.active()
	sort.Ints(ids)
	return ids
}

// CurrentMusic returns the playing music id.
func (s *System) CurrentMusic() (int, bool) {
	return s.music.current()
}

// Close stops everything.
func (s *System) Close() {
	s.samples.stopAll()
	s.music.stop()
}
