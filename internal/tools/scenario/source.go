package scenario

import (
	"sync"

	"github.com/louisbranch/duskwall/internal/core/dice"
)

// queuedSource yields scripted faces first and falls back to a seeded source
// once the queue is empty.
type queuedSource struct {
	mu       sync.Mutex
	queue    []int
	fallback dice.Source
}

func newQueuedSource(seed int64) *queuedSource {
	return &queuedSource{fallback: dice.NewSeededSource(seed)}
}

// Push validates faces and appends them to the queue.
func (s *queuedSource) Push(values ...int) error {
	scripted, err := dice.NewScriptedSource(values...)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for scripted.Remaining() > 0 {
		face, err := scripted.NextDie()
		if err != nil {
			return err
		}
		s.queue = append(s.queue, face)
	}
	return nil
}

// Pending reports how many scripted faces are still queued.
func (s *queuedSource) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *queuedSource) NextDie() (int, error) {
	s.mu.Lock()
	if len(s.queue) > 0 {
		face := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		return face, nil
	}
	s.mu.Unlock()
	return s.fallback.NextDie()
}
