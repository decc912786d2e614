package collection

import (
	"sync"

	"github.com/planloop/content-planner/internal/domain"
)

// Collection is the ordered in-memory record set currently displayed.
// Every save snapshots it at fire time, so a debounced write always
// persists the record list as it is now, not as it was when the edit
// happened.
type Collection struct {
	mu      sync.RWMutex
	records []domain.ContentRecord
}

func New() *Collection {
	return &Collection{}
}

// Replace swaps the whole record set, used on session transitions.
func (c *Collection) Replace(records []domain.ContentRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append([]domain.ContentRecord(nil), records...)
}

// Clear drops every record, used on sign-out.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}

// Snapshot returns a copy of the current ordered record set.
func (c *Collection) Snapshot() []domain.ContentRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.ContentRecord(nil), c.records...)
}

// Append adds a record at the end of the collection.
func (c *Collection) Append(record domain.ContentRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
}

// Get returns the record with the given id.
func (c *Collection) Get(id string) (domain.ContentRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.ContentRecord{}, false
}

// Update applies fn to the record with the given id, in place.
func (c *Collection) Update(id string, fn func(*domain.ContentRecord)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].ID == id {
			fn(&c.records[i])
			return true
		}
	}
	return false
}

// Remove deletes the record with the given id, keeping order.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.records {
		if c.records[i].ID == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
