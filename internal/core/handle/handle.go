package handle

import "fmt"

// Handle is the opaque identity of one world object. The lower 32 bits hold
// an arena slot index, the upper 32 bits the slot generation. Releasing a
// handle bumps the generation so a recycled slot never aliases the old object.
type Handle uint64

func New(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Index(), h.Generation())
}

// Arena allocates handles with generational indices and a free list.
// Generations start at 1, so the zero Handle is never issued.
// Not safe for concurrent use.
type Arena struct {
	generations []uint32
	freeList    []uint32
	live        int
}

func NewArena() *Arena {
	return &Arena{
		generations: make([]uint32, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

// Create issues a fresh handle, recycling a released slot when one is free.
func (a *Arena) Create() Handle {
	a.live++
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		return New(idx, a.generations[idx])
	}
	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 1)
	return New(idx, 1)
}

func (a *Arena) Alive(h Handle) bool {
	idx := h.Index()
	if h.IsZero() || int(idx) >= len(a.generations) {
		return false
	}
	return a.generations[idx] == h.Generation()
}

// Release invalidates h. Releasing a stale or unknown handle is a no-op and
// reports false.
func (a *Arena) Release(h Handle) bool {
	if !a.Alive(h) {
		return false
	}
	idx := h.Index()
	a.generations[idx]++
	if a.generations[idx] == 0 {
		// wrapped; skip the zero generation
		a.generations[idx] = 1
	}
	a.freeList = append(a.freeList, idx)
	a.live--
	return true
}

// Len returns the number of live handles.
func (a *Arena) Len() int { return a.live }
