// Package scheduler owns the wall-clock-to-cycle mapping and the slot
// registry. A single ticker goroutine advances the cycle position,
// queries every active slot and forwards timed events to the consumer
// channel; all mutation goes through the scheduler mutex.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"go-cycles/control"
	"go-cycles/debug"
	"go-cycles/pattern"
)

// Pat is the event pattern type held by slots.
type Pat = pattern.Pattern[control.Event]

// Dispatch is one timed event on its way to the consumer. At is the
// deadline; events computed behind schedule carry At == now and must
// still be applied.
type Dispatch struct {
	At    time.Time
	Slot  string
	Event control.Event
	Span  pattern.Span
}

// Trigger reports, for UI highlighting only, which source span just
// fired and for how long to flash it.
type Trigger struct {
	Slot string
	Span pattern.Span
	Dur  time.Duration
}

// State is a read-only snapshot of the transport.
type State struct {
	Playing  bool
	Cycle    int64
	CyclePos float64
	BPM      float64
}

// Options configures a scheduler. Zero fields take defaults.
type Options struct {
	BPM           float64       // default 120
	BeatsPerCycle float64       // default 4
	TickInterval  time.Duration // default 16ms control rate
	HighlightDur  time.Duration // default 150ms
	Buffer        int           // event channel capacity, default 256
}

// Scheduler drives cycle time. Construct with New, launch the tick
// loop with Start, then control the transport with Play/Stop/SetBPM
// and the slots with SetSlot/ClearSlot/Hush.
type Scheduler struct {
	mu    sync.Mutex
	slots map[string]Pat

	playing bool
	bpm     float64
	beats   float64

	// pos(t) = basePos + (t - origin) / cycleDur, computed as one
	// exact rational division per tick. No float accumulation.
	basePos pattern.Rat
	origin  time.Time
	prevPos pattern.Rat

	tickEvery    time.Duration
	highlightDur time.Duration

	out      chan Dispatch
	triggers chan Trigger

	// UpdateChan pulses when transport or slots change, for UIs.
	UpdateChan chan struct{}

	stopChan chan struct{}
	running  bool
}

// New creates a stopped scheduler with empty slots.
func New(opts Options) *Scheduler {
	if opts.BPM <= 0 {
		opts.BPM = 120
	}
	if opts.BeatsPerCycle <= 0 {
		opts.BeatsPerCycle = 4
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 16 * time.Millisecond
	}
	if opts.HighlightDur <= 0 {
		opts.HighlightDur = 150 * time.Millisecond
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}
	return &Scheduler{
		slots:        make(map[string]Pat),
		basePos:      pattern.FromInt(0),
		prevPos:      pattern.FromInt(0),
		bpm:          opts.BPM,
		beats:        opts.BeatsPerCycle,
		tickEvery:    opts.TickInterval,
		highlightDur: opts.HighlightDur,
		out:          make(chan Dispatch, opts.Buffer),
		triggers:     make(chan Trigger, opts.Buffer),
		UpdateChan:   make(chan struct{}, 1),
		stopChan:     make(chan struct{}),
	}
}

// Events is the consumer-facing stream of (deadline, event) pairs.
func (s *Scheduler) Events() <-chan Dispatch { return s.out }

// Triggers is the UI-facing highlight stream.
func (s *Scheduler) Triggers() <-chan Trigger { return s.triggers }

// Start launches the tick goroutine. Transport stays stopped until
// Play.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.tickLoop()
}

// Close stops the tick goroutine. The scheduler cannot be restarted.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()
	close(s.stopChan)
}

func (s *Scheduler) tickLoop() {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.step(time.Now())
		}
	}
}

// pulsesPerCycle quantizes clock positions to 1/221760 of a cycle
// (2^6 * 3^2 * 5 * 7 * 11 - divisible by every common subdivision,
// ~9us at 120bpm). Keeping clock denominators bounded keeps the int64
// rational math exact over arbitrarily long sessions.
const pulsesPerCycle = 221760

// cycleNanos returns the wall-clock length of one cycle at the current
// tempo: 60/bpm seconds per beat times beats per cycle.
func (s *Scheduler) cycleNanos() int64 {
	return int64(60.0 / s.bpm * s.beats * float64(time.Second))
}

// posAt maps a wall-clock instant to a cycle position quantized to
// pulse resolution. Caller holds the mutex and playing is true.
func (s *Scheduler) posAt(now time.Time) pattern.Rat {
	elapsed := now.Sub(s.origin).Nanoseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	cycleNs := s.cycleNanos()
	// Whole cycles first so the product never overflows.
	pulses := (elapsed/cycleNs)*pulsesPerCycle + (elapsed%cycleNs)*pulsesPerCycle/cycleNs
	return s.basePos.Add(pattern.NewRat(pulses, pulsesPerCycle))
}

// timeAt maps a cycle position back to a wall-clock deadline. Caller
// holds the mutex and playing is true.
func (s *Scheduler) timeAt(t pattern.Rat) time.Time {
	deltaNs := t.Sub(s.basePos).Float() * float64(s.cycleNanos())
	return s.origin.Add(time.Duration(deltaNs))
}

// step advances the clock to now, queries every active slot over the
// elapsed arc and dispatches the onsets. Split out from the ticker
// loop so tests can drive it with synthetic instants.
func (s *Scheduler) step(now time.Time) {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return
	}
	from := s.prevPos
	to := s.posAt(now)
	s.prevPos = to

	type lane struct {
		name string
		pat  Pat
	}
	lanes := make([]lane, 0, len(s.slots))
	for name, pat := range s.slots {
		lanes = append(lanes, lane{name, pat})
	}
	sort.Slice(lanes, func(i, j int) bool { return lanes[i].name < lanes[j].name })

	arc := pattern.NewArc(from, to)
	type pending struct {
		slot string
		hap  pattern.Hap[control.Event]
	}
	var due []pending
	for _, l := range lanes {
		for _, h := range l.pat.Query(arc) {
			if h.HasOnset() {
				due = append(due, pending{l.name, h})
			}
		}
	}
	// Non-decreasing dispatch order within the tick; slot name breaks
	// ties so simultaneous events are reproducible.
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].hap.Part.Start.Less(due[j].hap.Part.Start)
	})

	deadlines := make([]time.Time, len(due))
	for i, d := range due {
		deadline := s.timeAt(d.hap.Part.Start)
		if deadline.Before(now) {
			// Fell behind; apply immediately rather than drop.
			deadline = now
		}
		deadlines[i] = deadline
	}
	highlight := s.highlightDur
	s.mu.Unlock()

	for i, d := range due {
		s.send(Dispatch{At: deadlines[i], Slot: d.slot, Event: d.hap.Value, Span: d.hap.Span})
		s.trigger(Trigger{Slot: d.slot, Span: d.hap.Span, Dur: highlight})
	}
	if len(due) > 0 {
		debug.LogEvery(64, "sched", "tick arc=%s dispatched=%d", arc, len(due))
	}
}

// send is fire-and-forget: the tick loop never blocks on a stalled
// consumer. Overflow is logged, not silent.
func (s *Scheduler) send(d Dispatch) {
	select {
	case s.out <- d:
	default:
		debug.Log("sched", "consumer behind, dropped %s from %s", d.Event, d.Slot)
	}
}

func (s *Scheduler) trigger(t Trigger) {
	select {
	case s.triggers <- t:
	default:
	}
}

// Play starts (or resumes) the transport. The position continues from
// where Stop left it; it does not reset.
func (s *Scheduler) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		return
	}
	s.playing = true
	s.origin = time.Now()
	s.prevPos = s.basePos
	s.notify()
}

// Stop freezes the transport. Cycle position keeps its last value.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	s.basePos = s.posAt(time.Now())
	s.playing = false
	s.notify()
}

// SetBPM changes tempo from now on. The origin is rebased to the
// current position first, so already-elapsed time is not rewritten and
// the next tick neither skips nor double-fires.
func (s *Scheduler) SetBPM(bpm float64) {
	if bpm <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		now := time.Now()
		s.basePos = s.posAt(now)
		s.origin = now
	}
	s.bpm = bpm
	s.notify()
}

// SetSlot atomically binds name to pat. Events already dispatched for
// the current tick are unaffected.
func (s *Scheduler) SetSlot(name string, pat Pat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[name] = pat
	s.notify()
}

// ClearSlot removes one binding.
func (s *Scheduler) ClearSlot(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, name)
	s.notify()
}

// Hush clears every slot. Transport and tempo are untouched.
func (s *Scheduler) Hush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[string]Pat)
	s.notify()
}

// ActiveSlots returns the names currently bound, sorted. Read-only
// projection for UIs.
func (s *Scheduler) ActiveSlots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Once dispatches the onsets of pat's first cycle immediately, without
// installing a looping slot.
func (s *Scheduler) Once(pat Pat) {
	arc := pattern.NewArc(pattern.FromInt(0), pattern.FromInt(1))
	haps := pat.Query(arc)
	now := time.Now()
	s.mu.Lock()
	highlight := s.highlightDur
	s.mu.Unlock()
	for _, h := range haps {
		if !h.HasOnset() {
			continue
		}
		s.send(Dispatch{At: now, Slot: "once", Event: h.Value, Span: h.Span})
		s.trigger(Trigger{Slot: "once", Span: h.Span, Dur: highlight})
	}
}

// State returns a transport snapshot.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.basePos
	if s.playing {
		pos = s.posAt(time.Now())
	}
	return State{
		Playing:  s.playing,
		Cycle:    pos.Floor(),
		CyclePos: pos.CyclePos().Float(),
		BPM:      s.bpm,
	}
}

func (s *Scheduler) notify() {
	select {
	case s.UpdateChan <- struct{}{}:
	default:
	}
}
