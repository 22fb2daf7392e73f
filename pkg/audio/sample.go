package audio

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// sampleVoice is one playing sample. player is nil when running silent.
type sampleVoice struct {
	id        int
	remaining int // 0 loops forever
	player    *audio.Player
}

// samplePlayer mixes any number of samples; Ebitengine does the mixing.
type samplePlayer struct {
	ctx    *audio.Context
	voices []*sampleVoice
	muted  bool
	mu     sync.Mutex
}

func newSamplePlayer(ctx *audio.Context) *samplePlayer {
	return &samplePlayer{ctx: ctx}
}

func (sp *samplePlayer) play(id, repeat int, data []byte) error {
	stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSample, err)
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()

	v := &sampleVoice{id: id, remaining: repeat}
	if sp.ctx != nil {
		var p *audio.Player
		if repeat == 0 {
			p, err = sp.ctx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
		} else {
			p, err = sp.ctx.NewPlayer(stream)
		}
		if err != nil {
			return fmt.Errorf("failed to create audio player: %w", err)
		}
		if sp.muted {
			p.SetVolume(0)
		}
		p.Play()
		v.player = p
	}
	sp.voices = append(sp.voices, v)
	return nil
}

func (sp *samplePlayer) stop(id int) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	kept := sp.voices[:0]
	for _, v := range sp.voices {
		if v.id == id {
			v.close()
			continue
		}
		kept = append(kept, v)
	}
	sp.voices = kept
}

func (sp *samplePlayer) stopAll() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for _, v := range sp.voices {
		v.close()
	}
	sp.voices = nil
}

func (sp *samplePlayer) setMuted(muted bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.muted = muted
	for _, v := range sp.voices {
		if v.player == nil {
			continue
		}
		if muted {
			v.player.SetVolume(0)
		} else {
			v.player.SetVolume(1)
		}
	}
}

func (sp *samplePlayer) update() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.cleanup()
}

// cleanup restarts finished voices with repeats left and drops the rest.
// Silent voices finish one repetition per update. Must be called with mu
// held.
func (sp *samplePlayer) cleanup() {
	kept := sp.voices[:0]
	for _, v := range sp.voices {
		if v.player != nil && v.player.IsPlaying() {
			kept = append(kept, v)
			continue
		}
		if v.remaining == 0 {
			kept = append(kept, v)
			continue
		}
		v.remaining--
		if v.remaining > 0 {
			if v.player != nil {
				if err := v.player.SetPosition(0); err == nil {
					v.player.Play()
				}
			}
			kept = append(kept, v)
			continue
		}
		v.close()
	}
	sp.voices = kept
}

func (sp *samplePlayer) active() []int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	ids := make([]int, 0, len(sp.voices))
	for _, v := range sp.voices {
		ids = append(ids, v.id)
	}
	return ids
}

func (v *sampleVoice) close() {
	if v.player != nil {
		v.player.Close()
		v.player = nil
	}
}
