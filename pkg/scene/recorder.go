package scene

import "fmt"

// Event is one audio or presentation call captured by a Recorder.
type Event struct {
	Kind  string
	Actor int
	Args  []int
	Text  string
}

func (e Event) String() string {
	if e.Text != "" {
		return fmt.Sprintf("%s actor=%d %v %q", e.Kind, e.Actor, e.Args, e.Text)
	}
	return fmt.Sprintf("%s actor=%d %v", e.Kind, e.Actor, e.Args)
}

// Recorder implements world.Audio and world.Presenter by remembering every
// call. The headless runner uses it as its presentation surface.
type Recorder struct {
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(e Event) {
	r.events = append(r.events, e)
}

func (r *Recorder) PlaySample(id, repeat, actor int) {
	r.add(Event{Kind: "PLAY_SAMPLE", Actor: actor, Args: []int{id, repeat}})
}

func (r *Recorder) StopSample(id int) {
	r.add(Event{Kind: "STOP_SAMPLE", Actor: -1, Args: []int{id}})
}

func (r *Recorder) PlayMusic(id int) {
	r.add(Event{Kind: "PLAY_MUSIC", Actor: -1, Args: []int{id}})
}

func (r *Recorder) StopMusic() {
	r.add(Event{Kind: "STOP_MUSIC", Actor: -1})
}

func (r *Recorder) Present(actor int, command string, args []int, text string) {
	r.add(Event{Kind: command, Actor: actor, Args: append([]int(nil), args...), Text: text})
}

// Events returns the calls recorded so far.
func (r *Recorder) Events() []Event {
	return r.events
}

// Count returns how many calls of kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets the recorded calls.
func (r *Recorder) Reset() {
	r.events = nil
}
