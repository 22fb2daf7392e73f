package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/zurustar/twinscript/pkg/fileutil"
)

// testWAV returns a valid 16-bit stereo PCM WAV holding n silent frames.
func testWAV(n int) []byte {
	var b bytes.Buffer
	data := n * 4
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+data))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(SampleRate*4))
	binary.Write(&b, binary.LittleEndian, uint16(4))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(data))
	b.Write(make([]byte, data))
	return b.Bytes()
}

func newTestSystem(t *testing.T, files fstest.MapFS, opts ...Option) (*System, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	opts = append([]Option{WithLogger(log)}, opts...)
	return New(fileutil.NewSubFS(files, ""), opts...), &logs
}

func TestSystem_SilentSampleRepeats(t *testing.T) {
	s, logs := newTestSystem(t, fstest.MapFS{
		"samples/001.wav": &fstest.MapFile{Data: testWAV(64)},
		"samples/002.wav": &fstest.MapFile{Data: testWAV(64)},
	})

	s.PlaySample(1, 2, 0)
	s.PlaySample(2, 1, 0)
	if got := s.ActiveSamples(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("expected samples [1 2], got %v", got)
	}

	// 無音モードでは Update 1 回で 1 回分の再生が終わる
	s.Update()
	if got := s.ActiveSamples(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("after one update expected [1], got %v", got)
	}
	s.Update()
	if got := s.ActiveSamples(); len(got) != 0 {
		t.Errorf("expected no samples, got %v", got)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected log output: %s", logs.String())
	}
}

func TestSystem_LoopingSampleUntilStopped(t *testing.T) {
	s, _ := newTestSystem(t, fstest.MapFS{
		"samples/007.wav": &fstest.MapFile{Data: testWAV(16)},
	})

	s.PlaySample(7, 0, 3)
	for i := 0; i < 5; i++ {
		s.Update()
	}
	if got := s.ActiveSamples(); !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("looping sample should stay active, got %v", got)
	}
	s.StopSample(7)
	if got := s.ActiveSamples(); len(got) != 0 {
		t.Errorf("expected no samples after stop, got %v", got)
	}
}

func TestSystem_SampleErrorsAreLogged(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{"missing", fstest.MapFS{}, ErrSampleNotFound.Error()},
		{"corrupt", fstest.MapFS{"samples/001.wav": &fstest.MapFile{Data: []byte("not a wav")}}, ErrInvalidSample.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, logs := newTestSystem(t, tt.files)
			s.PlaySample(1, 1, 4)
			if got := s.ActiveSamples(); len(got) != 0 {
				t.Errorf("expected nothing playing, got %v", got)
			}
			if !strings.Contains(logs.String(), tt.want) || !strings.Contains(logs.String(), "actor=4") {
				t.Errorf("expected %q in log, got %s", tt.want, logs.String())
			}
		})
	}
}

func TestSystem_SilentMusic(t *testing.T) {
	s, logs := newTestSystem(t, fstest.MapFS{
		"bgm/track3.mid": &fstest.MapFile{Data: []byte("MThd")},
	}, WithPatterns("", "bgm/track%d.mid"))

	if _, ok := s.CurrentMusic(); ok {
		t.Fatal("no music should be playing initially")
	}
	s.PlayMusic(3)
	if id, ok := s.CurrentMusic(); !ok || id != 3 {
		t.Errorf("expected track 3, got %d %v", id, ok)
	}

	s.PlayMusic(4)
	if id, ok := s.CurrentMusic(); !ok || id != 3 {
		t.Errorf("a missing track leaves the current one playing, got %d %v", id, ok)
	}
	if !strings.Contains(logs.String(), ErrMusicNotFound.Error()) {
		t.Errorf("expected missing music to be logged, got %s", logs.String())
	}

	s.PlayMusic(3)
	s.StopMusic()
	if _, ok := s.CurrentMusic(); ok {
		t.Error("music should stop")
	}
}

func TestSystem_Muted(t *testing.T) {
	s, _ := newTestSystem(t, fstest.MapFS{}, WithMuted(true))
	if !s.IsMuted() {
		t.Fatal("expected muted system")
	}
	s.SetMuted(false)
	if s.IsMuted() {
		t.Error("expected unmuted system")
	}
	s.Close()
}

func TestLoadSoundFont(t *testing.T) {
	fsys := fileutil.NewSubFS(fstest.MapFS{
		"bad.sf2": &fstest.MapFile{Data: []byte("RIFF....")},
	}, "")

	if _, err := LoadSoundFont(fsys, DefaultSoundFontName); !errors.Is(err, ErrSoundFontNotFound) {
		t.Errorf("expected ErrSoundFontNotFound, got %v", err)
	}
	_, err := LoadSoundFont(fsys, "bad.sf2")
	if err == nil || errors.Is(err, ErrSoundFontNotFound) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestMIDIStream_StoppedIsSilent(t *testing.T) {
	s := &midiStream{}
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	n, err := s.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("unexpected read: %d %v", n, err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not silent: %d", i, b)
		}
	}
}

func TestClampSample(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{-2, -1}, {-1, -1}, {0.25, 0.25}, {1, 1}, {3, 1},
	}
	for _, tt := range tests {
		if got := clampSample(tt.in); got != tt.want {
			t.Errorf("clampSample(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
