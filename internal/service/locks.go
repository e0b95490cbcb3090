package service

import "sync"

const lockStripes = 64

// accountLocks serializes the read-modify-write span of each money
// operation per account. Locks are striped by account ID so the table
// stays fixed-size; accounts sharing a stripe share a mutex, which only
// costs contention, never correctness.
type accountLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *accountLocks) lock(id int64) func() {
	m := &l.stripes[id%lockStripes]
	m.Lock()
	return m.Unlock
}

// lockPair acquires the stripes for two accounts in ascending stripe
// order so concurrent transfers in opposite directions cannot deadlock.
func (l *accountLocks) lockPair(a, b int64) func() {
	i, j := a%lockStripes, b%lockStripes
	if i > j {
		i, j = j, i
	}
	l.stripes[i].Lock()
	if i != j {
		l.stripes[j].Lock()
	}
	return func() {
		if i != j {
			l.stripes[j].Unlock()
		}
		l.stripes[i].Unlock()
	}
}
