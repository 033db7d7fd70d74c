package services

import (
	"hash/fnv"
	"sync"
)

// stripes serializes read-modify-write of one session's state. Sessions hash onto a
// fixed set of mutexes so memory stays bounded.
type stripes [64]sync.Mutex

func (s *stripes) lock(sid string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	mu := &s[h.Sum32()%uint32(len(s))]
	mu.Lock()
	return mu.Unlock
}
