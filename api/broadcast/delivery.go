package broadcast

import (
	"sync"
	"time"
)

// deliveryScheduler holds one cancellable timer per message still waiting for
// its sent -> delivered transition.
type deliveryScheduler struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
	closed bool
}

func newDeliveryScheduler(delay time.Duration) *deliveryScheduler {
	if delay < 0 {
		delay = 0
	}
	return &deliveryScheduler{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// schedule runs fn once after the delay unless the message is cancelled first.
// It reports false once the scheduler has been stopped.
func (d *deliveryScheduler) schedule(messageID string, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	if t, ok := d.timers[messageID]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current, ok := d.timers[messageID]
		if !ok || current != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, messageID)
		d.mu.Unlock()

		fn()
	})
	d.timers[messageID] = t
	return true
}

// cancel drops the pending transition of a message that left the history
func (d *deliveryScheduler) cancel(messageID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.timers[messageID]
	if !ok {
		return false
	}
	t.Stop()
	delete(d.timers, messageID)
	return true
}

func (d *deliveryScheduler) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// stop cancels every pending timer and refuses new ones. It returns how many
// transitions were dropped.
func (d *deliveryScheduler) stop() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	n := len(d.timers)
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
	return n
}
