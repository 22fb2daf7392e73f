package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

// midiStream renders the sequencer as 16-bit stereo PCM for Ebitengine.
type midiStream struct {
	sequencer *meltysynth.MidiFileSequencer
	stopped   bool
	mu        sync.Mutex
}

func (s *midiStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.sequencer == nil {
		clear(p)
		return len(p), nil
	}

	// 16-bit stereo = 4 bytes per sample
	samples := len(p) / 4
	if samples == 0 {
		return 0, nil
	}
	left := make([]float32, samples)
	right := make([]float32, samples)
	s.sequencer.Render(left, right)

	for i := range samples {
		l := int16(clampSample(left[i]) * 32767)
		r := int16(clampSample(right[i]) * 32767)
		binary.LittleEndian.PutUint16(p[i*4:], uint16(l))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(r))
	}
	return samples * 4, nil
}

func (s *midiStream) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

func clampSample(v float32) float32 {
	return min(max(v, -1), 1)
}

// musicPlayer plays one MIDI track at a time.
type musicPlayer struct {
	ctx       *audio.Context
	soundFont *meltysynth.SoundFont

	player   *audio.Player
	stream   *midiStream
	id       int
	playing  bool
	duration time.Duration
	muted    bool
	mu       sync.Mutex
}

func newMusicPlayer(ctx *audio.Context, sf *meltysynth.SoundFont) *musicPlayer {
	return &musicPlayer{ctx: ctx, soundFont: sf}
}

func (mp *musicPlayer) play(id int, data []byte) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.stopInternal()

	if mp.ctx == nil {
		// Silent: remember the track so scripts and tests can observe it.
		mp.id, mp.playing = id, true
		return nil
	}
	if mp.soundFont == nil {
		return ErrNoSoundFont
	}

	midi, err := meltysynth.NewMidiFile(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMusic, err)
	}
	synth, err := meltysynth.NewSynthesizer(mp.soundFont, meltysynth.NewSynthesizerSettings(SampleRate))
	if err != nil {
		return fmt.Errorf("failed to create synthesizer: %w", err)
	}
	seq := meltysynth.NewMidiFileSequencer(synth)
	seq.Play(midi, false)

	mp.stream = &midiStream{sequencer: seq}
	player, err := mp.ctx.NewPlayer(mp.stream)
	if err != nil {
		mp.stream = nil
		return fmt.Errorf("failed to create audio player: %w", err)
	}
	if mp.muted {
		player.SetVolume(0)
	}
	player.Play()

	mp.player = player
	mp.duration = midi.GetLength()
	mp.id, mp.playing = id, true
	return nil
}

func (mp *musicPlayer) stop() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.stopInternal()
}

// stopInternal must be called with mu held.
func (mp *musicPlayer) stopInternal() {
	if mp.stream != nil {
		mp.stream.stop()
		mp.stream = nil
	}
	if mp.player != nil {
		mp.player.Close()
		mp.player = nil
	}
	mp.playing = false
	mp.duration = 0
}

// update notices the end of an audible track.
func (mp *musicPlayer) update() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.playing && mp.player != nil && mp.player.Position() >= mp.duration {
		mp.stopInternal()
	}
}

func (mp *musicPlayer) setMuted(muted bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.muted = muted
	if mp.player == nil {
		return
	}
	if muted {
		mp.player.SetVolume(0)
	} else {
		mp.player.SetVolume(1)
	}
}

func (mp *musicPlayer) current() (int, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.id, mp.playing
}
