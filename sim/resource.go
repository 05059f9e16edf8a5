package sim

import "fmt"

// Resource is a capacity-limited mutual-exclusion gate with a FIFO wait queue.
// First-come-first-served only: no priorities, no preemption.
type Resource struct {
	name     string
	capacity int
	holders  map[int]struct{}
	queue    []Process
	peak     int
	grants   int
}

// NewResource creates a Resource admitting up to capacity concurrent holders.
// Panics on capacity < 1; Config.Validate rejects such stations first.
func NewResource(name string, capacity int) *Resource {
	if capacity < 1 {
		panic(fmt.Sprintf("NewResource(%s): capacity must be >= 1, got %d", name, capacity))
	}
	return &Resource{
		name:     name,
		capacity: capacity,
		holders:  make(map[int]struct{}, capacity),
	}
}

// Acquire grants p a slot and returns true when one is free and nobody is
// queued ahead of it. Otherwise p joins the back of the wait queue and Acquire
// returns false; p must then return from Resume and will be woken, already
// holding the slot, once the slot is handed to it by Release.
func (r *Resource) Acquire(s *Scheduler, p Process) bool {
	b := p.base()
	if _, held := r.holders[b.pid]; held {
		panic(fmt.Sprintf("Acquire(%s): process %d already holds a slot", r.name, b.pid))
	}
	if len(r.holders) < r.capacity && len(r.queue) == 0 {
		r.grant(b.pid)
		return true
	}
	r.queue = append(r.queue, p)
	b.state = ProcWaitingResource
	return false
}

// Release frees the slot held by p and hands it to the longest-waiting
// process, which resumes at the current instant. Releasing a slot p does not
// hold is a programming error and panics.
func (r *Resource) Release(s *Scheduler, p Process) {
	pid := p.base().pid
	if _, held := r.holders[pid]; !held {
		panic(fmt.Sprintf("Release(%s): process %d does not hold a slot", r.name, pid))
	}
	delete(r.holders, pid)
	if len(r.queue) == 0 {
		return
	}
	next := r.queue[0]
	r.queue[0] = nil
	r.queue = r.queue[1:]
	r.grant(next.base().pid)
	s.Wake(next)
}

func (r *Resource) grant(pid int) {
	r.holders[pid] = struct{}{}
	r.grants++
	if len(r.holders) > r.peak {
		r.peak = len(r.holders)
	}
}

// Name returns the station name the resource guards.
func (r *Resource) Name() string { return r.name }

// Capacity returns the configured number of concurrent holders.
func (r *Resource) Capacity() int { return r.capacity }

// InUse returns the number of current holders.
func (r *Resource) InUse() int { return len(r.holders) }

// QueueLen returns the number of processes waiting for a slot.
func (r *Resource) QueueLen() int { return len(r.queue) }

// PeakInUse returns the highest number of simultaneous holders observed.
func (r *Resource) PeakInUse() int { return r.peak }

// Grants returns the total number of slots granted.
func (r *Resource) Grants() int { return r.grants }

// Holds reports whether p currently holds a slot.
func (r *Resource) Holds(p Process) bool {
	_, held := r.holders[p.base().pid]
	return held
}
