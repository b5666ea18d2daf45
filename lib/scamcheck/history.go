package scamcheck

import (
	"container/ring"
	"sync"
)

// LastVerdicts keeps track of last N verdicts, thread-safe.
type LastVerdicts struct {
	verdicts *ring.Ring
	size     int
	lock     sync.RWMutex
}

// NewLastVerdicts creates new verdicts tracker
func NewLastVerdicts(size int) *LastVerdicts {
	// minimum size is 1
	if size < 1 {
		size = 1
	}
	return &LastVerdicts{
		verdicts: ring.New(size),
		size:     size,
	}
}

// Push adds new verdict to the history
func (h *LastVerdicts) Push(v Verdict) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.verdicts.Value = v
	h.verdicts = h.verdicts.Next()
}

// Last returns up to n most recent verdicts in chronological order (oldest to newest)
func (h *LastVerdicts) Last(n int) []Verdict {
	if n < 1 {
		return []Verdict{}
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	result := make([]Verdict, 0, h.size)
	h.verdicts.Do(func(v any) {
		if vv, ok := v.(Verdict); ok {
			result = append(result, vv)
		}
	})

	if len(result) > n {
		result = result[len(result)-n:]
	}
	return result
}

// Size returns the size of verdicts history
func (h *LastVerdicts) Size() int {
	return h.size
}
