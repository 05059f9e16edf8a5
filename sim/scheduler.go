package sim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// ProcState is the tagged state of a logical process as seen by the Scheduler.
type ProcState int

const (
	ProcNew             ProcState = iota // created, never resumed
	ProcRunning                          // executing between two suspension points
	ProcWaitingTime                      // suspended until a wakeup time
	ProcWaitingResource                  // suspended in a Resource wait queue
	ProcTerminated                       // reached a terminal state
)

func (s ProcState) String() string {
	switch s {
	case ProcNew:
		return "new"
	case ProcRunning:
		return "running"
	case ProcWaitingTime:
		return "waiting-time"
	case ProcWaitingResource:
		return "waiting-resource"
	case ProcTerminated:
		return "terminated"
	}
	return fmt.Sprintf("ProcState(%d)", int(s))
}

// Process is a resumable logical process. Resume runs the process from its
// current state until it either suspends (Scheduler.Wait, Resource.Acquire
// returning false) or terminates. Implementations embed ProcessBase.
type Process interface {
	Resume(s *Scheduler)
	base() *ProcessBase
}

// ProcessBase carries the scheduler-owned bookkeeping of a Process.
type ProcessBase struct {
	pid       int
	state     ProcState
	scheduled bool
}

func (b *ProcessBase) base() *ProcessBase { return b }

// PID returns the creation-order identifier assigned by Scheduler.Spawn.
// Zero means the process was never spawned.
func (b *ProcessBase) PID() int { return b.pid }

// State returns the last state recorded by the Scheduler.
func (b *ProcessBase) State() ProcState { return b.state }

// wakeup is one pending resumption in the event heap.
type wakeup struct {
	at   float64
	pid  int
	seq  uint64
	proc Process
}

// wakeupHeap orders wakeups by time → process creation order → scheduling order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type wakeupHeap []wakeup

func (h wakeupHeap) Len() int { return len(h) }

func (h wakeupHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	if h[i].pid != h[j].pid {
		return h[i].pid < h[j].pid
	}
	return h[i].seq < h[j].seq
}

func (h wakeupHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *wakeupHeap) Push(x any) {
	*h = append(*h, x.(wakeup))
}

func (h *wakeupHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = wakeup{}
	*h = old[0 : n-1]
	return item
}

// Scheduler owns the virtual clock (minutes) and the single "what happens
// next" decision. It is cooperative and single-threaded.
type Scheduler struct {
	now     float64
	queue   wakeupHeap
	nextPID int
	nextSeq uint64
	resumed uint64
}

// NewScheduler returns a scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{queue: make(wakeupHeap, 0)}
	heap.Init(&s.queue)
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 { return s.now }

// Pending returns the number of scheduled wakeups.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Resumptions returns how many times a process has been resumed so far.
func (s *Scheduler) Resumptions() uint64 { return s.resumed }

// Spawn assigns p the next creation-order PID and schedules its first
// resumption at the current instant.
func (s *Scheduler) Spawn(p Process) int {
	b := p.base()
	if b.pid != 0 {
		panic(fmt.Sprintf("Spawn: process %d already spawned", b.pid))
	}
	s.nextPID++
	b.pid = s.nextPID
	s.push(p, s.now)
	return b.pid
}

// Wait suspends p until d minutes of virtual time have elapsed.
// A negative, NaN or infinite d is rejected with ErrInvalidDuration and
// nothing is scheduled.
func (s *Scheduler) Wait(p Process, d float64) error {
	if !validDelay(d) {
		return fmt.Errorf("%w: delay %v for process %d", ErrInvalidDuration, d, p.base().pid)
	}
	s.push(p, s.now+d)
	return nil
}

// Wake schedules p to resume at the current instant.
func (s *Scheduler) Wake(p Process) {
	s.push(p, s.now)
}

// Terminate marks p as finished. A terminated process is never resumed.
func (s *Scheduler) Terminate(p Process) {
	b := p.base()
	if b.scheduled {
		panic(fmt.Sprintf("Terminate: process %d still has a pending wakeup", b.pid))
	}
	b.state = ProcTerminated
}

func (s *Scheduler) push(p Process, at float64) {
	b := p.base()
	if b.pid == 0 {
		panic("Scheduler: process was never spawned")
	}
	if b.scheduled {
		panic(fmt.Sprintf("Scheduler: process %d already has a pending wakeup", b.pid))
	}
	if b.state == ProcTerminated {
		panic(fmt.Sprintf("Scheduler: process %d is terminated", b.pid))
	}
	b.scheduled = true
	b.state = ProcWaitingTime
	s.nextSeq++
	heap.Push(&s.queue, wakeup{at: at, pid: b.pid, seq: s.nextSeq, proc: p})
}

// RunUntil resumes processes in wakeup order until the next wakeup lies at or
// beyond horizon, then leaves the clock at horizon. Processes still suspended
// are abandoned in place.
func (s *Scheduler) RunUntil(horizon float64) {
	if math.IsNaN(horizon) || horizon < s.now {
		panic(fmt.Sprintf("RunUntil: horizon %v is before current time %v", horizon, s.now))
	}
	for len(s.queue) > 0 {
		if s.queue[0].at >= horizon {
			break
		}
		w := heap.Pop(&s.queue).(wakeup)
		s.now = w.at
		b := w.proc.base()
		b.scheduled = false
		b.state = ProcRunning
		s.resumed++
		logrus.Debugf("[t=%9.3f] resume pid=%d %T", s.now, w.pid, w.proc)
		w.proc.Resume(s)
		if b.state == ProcRunning {
			// Resume returned without suspending or terminating.
			b.state = ProcTerminated
		}
	}
	s.now = horizon
}

// mustWait schedules a delay the caller has already validated.
func mustWait(s *Scheduler, p Process, d float64) {
	if err := s.Wait(p, d); err != nil {
		panic(err)
	}
}
