package view

import (
	"sync"
)

// snapshotCache is a simple thread-safe LRU cache keyed by selection
// state. Snapshots are pure over an immutable dataset, so entries never
// go stale; the cache only bounds memory.
type snapshotCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[State]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   State
	value Snapshot
	prev  *entry
	next  *entry
}

func newSnapshotCache(maxEntries int) *snapshotCache {
	return &snapshotCache{
		maxEntries: maxEntries,
		entries:    make(map[State]*entry),
	}
}

func (c *snapshotCache) get(key State) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *snapshotCache) put(key State, value Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *snapshotCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *snapshotCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *snapshotCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *snapshotCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
