package inkboard

import "sync"

// Event is an input for the board. Events are applied in the order they
// were pushed, since drawing and erasing do not commute.
type Event interface {
	apply(b *Board)
}

// StrokeBegin starts a stroke at UV.
type StrokeBegin struct {
	UV     UV
	Radius float32
}

// StrokeMove continues the stroke from From to To.
type StrokeMove struct {
	From, To UV
	Radius   float32
}

// StrokeEnd ends the active stroke.
type StrokeEnd struct{}

// Erase erases around UV.
type Erase struct {
	UV     UV
	Radius float32
}

func (e StrokeBegin) apply(b *Board) { b.OnStrokeBegin(e.UV, e.Radius) }
func (e StrokeMove) apply(b *Board)  { b.OnStrokeMove(e.From, e.To, e.Radius) }
func (StrokeEnd) apply(b *Board)     { b.OnStrokeEnd() }
func (e Erase) apply(b *Board)       { b.OnErase(e.UV, e.Radius) }

// Queue collects events from any number of producers and hands them to a
// single consumer, typically once per frame.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// Push appends an event to the queue.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Drain applies every pending event to the board in FIFO order and returns how
// many were applied. Events pushed while draining wait for the next call.
func (q *Queue) Drain(b *Board) int {
	q.mu.Lock()
	pending := q.events
	q.events = nil
	q.mu.Unlock()

	for _, ev := range pending {
		ev.apply(b)
	}
	return len(pending)
}

// Tracker turns raw pointer positions into board events. It only emits a
// move once the pointer travelled at least MinStep since the last emitted
// point, which keeps stationary jitter from piling stamps on one spot.
type Tracker struct {
	// MinStep is the minimal travel, in UV units, between two moves.
	MinStep float32
	// Radius is the contact factor attached to every event.
	Radius float32

	q       *Queue
	mode    Mode
	drawing bool
	last    UV
}

// NewTracker creates a tracker pushing into q in draw mode.
func NewTracker(q *Queue, minStep float32) *Tracker {
	return &Tracker{
		MinStep: minStep,
		Radius:  1,
		q:       q,
	}
}

// SetMode switches between drawing and erasing. An active stroke is ended first.
func (t *Tracker) SetMode(m Mode) {
	if t.drawing && m != ModeDraw {
		t.Up()
	}
	t.mode = m
}

// Mode returns the current tool.
func (t *Tracker) Mode() Mode {
	return t.mode
}

// Down reports the pointer being pressed at uv.
func (t *Tracker) Down(uv UV) {
	if t.mode == ModeErase {
		t.q.Push(Erase{UV: uv, Radius: t.Radius})
		return
	}
	t.drawing = true
	t.last = uv
	t.q.Push(StrokeBegin{UV: uv, Radius: t.Radius})
}

// Drag reports the pointer moving to uv while pressed.
func (t *Tracker) Drag(uv UV) {
	if t.mode == ModeErase {
		t.q.Push(Erase{UV: uv, Radius: t.Radius})
		return
	}
	if !t.drawing {
		return
	}
	if t.last.Dist(uv) <= t.MinStep {
		return
	}
	t.q.Push(StrokeMove{From: t.last, To: uv, Radius: t.Radius})
	t.last = uv
}

// Up reports the pointer being released.
func (t *Tracker) Up() {
	if !t.drawing {
		return
	}
	t.drawing = false
	t.q.Push(StrokeEnd{})
}

// EraseAt erases around uv whatever the current mode.
func (t *Tracker) EraseAt(uv UV) {
	t.q.Push(Erase{UV: uv, Radius: t.Radius})
}
