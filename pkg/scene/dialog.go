package scene

import (
	"time"

	"github.com/zurustar/twinscript/pkg/world"
)

// Request is one UI request made by a script.
type Request struct {
	Ticket world.Ticket
	Kind   string
	Actor  int
	TextID int
	Text   string
}

// Dialog completes every request a fixed number of frames after it was
// made. It records requests for inspection and answers choices with the
// configured answer, or the first offered choice.
type Dialog struct {
	latency  int
	next     world.Ticket
	pending  map[world.Ticket]int
	requests []Request
	offered  []int
	answer   int
	choice   int
	closed   []int
}

// NewDialog creates a Dialog whose requests take latency ticks. With 0 a
// request is done the frame after it was made.
func NewDialog(latency int) *Dialog {
	return &Dialog{latency: latency, pending: make(map[world.Ticket]int), answer: -1}
}

func (d *Dialog) issue(r Request) world.Ticket {
	d.next++
	r.Ticket = d.next
	d.requests = append(d.requests, r)
	d.pending[r.Ticket] = d.latency
	return r.Ticket
}

func (d *Dialog) Message(actor, textID int, text string) world.Ticket {
	return d.issue(Request{Kind: "message", Actor: actor, TextID: textID, Text: text})
}

func (d *Dialog) AddChoice(textID int, _ string) {
	d.offered = append(d.offered, textID)
}

func (d *Dialog) AskChoice(actor, textID int, text string) world.Ticket {
	d.choice = d.answer
	if d.choice < 0 && len(d.offered) > 0 {
		d.choice = d.offered[0]
	}
	d.offered = nil
	return d.issue(Request{Kind: "choice", Actor: actor, TextID: textID, Text: text})
}

func (d *Dialog) FoundObject(actor, item int) world.Ticket {
	return d.issue(Request{Kind: "found", Actor: actor, TextID: item})
}

func (d *Dialog) PlayVideo(name string) world.Ticket {
	return d.issue(Request{Kind: "video", Actor: world.NoActor, Text: name})
}

func (d *Dialog) CloseMessage(actor int) {
	d.closed = append(d.closed, actor)
}

func (d *Dialog) Done(t world.Ticket) bool {
	left, ok := d.pending[t]
	if !ok {
		return true
	}
	if left != 0 {
		return false
	}
	delete(d.pending, t)
	return true
}

func (d *Dialog) Choice() int {
	return d.choice
}

// Answer sets the text id the next ASK_CHOICE selects.
func (d *Dialog) Answer(textID int) {
	d.answer = textID
}

// Complete finishes a request immediately.
func (d *Dialog) Complete(t world.Ticket) {
	if _, ok := d.pending[t]; ok {
		d.pending[t] = 0
	}
}

// Hold keeps a request open until Complete is called.
func (d *Dialog) Hold(t world.Ticket) {
	if _, ok := d.pending[t]; ok {
		d.pending[t] = -1
	}
}

// Tick counts one frame down on every open request.
func (d *Dialog) Tick(time.Duration) {
	for t, left := range d.pending {
		if left > 0 {
			d.pending[t] = left - 1
		}
	}
}

// Requests returns the requests made so far.
func (d *Dialog) Requests() []Request {
	return d.requests
}

// Closed returns the actors whose message was closed by a script.
func (d *Dialog) Closed() []int {
	return d.closed
}

// Pending reports whether a request is still open.
func (d *Dialog) Pending(t world.Ticket) bool {
	left, ok := d.pending[t]
	return ok && left != 0
}
