package scene

// FrameID identifies a pending frame request.
type FrameID uint64

// Scheduler runs callbacks on the next display frame.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn func()
}

// Queue is a Scheduler driven by explicit Flush calls: once per display
// tick in a real host, on demand in tests and headless runs.
type Queue struct {
	next    FrameID
	pending []pendingFrame
}

// RequestFrame queues fn for the next Flush.
func (q *Queue) RequestFrame(fn func()) FrameID {
	q.next++
	q.pending = append(q.pending, pendingFrame{id: q.next, fn: fn})
	return q.next
}

// CancelFrame drops a queued request. Unknown ids are ignored.
func (q *Queue) CancelFrame(id FrameID) {
	for i, p := range q.pending {
		if p.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued requests.
func (q *Queue) Pending() int { return len(q.pending) }

// Flush runs the requests queued before the call and returns how many
// ran. Requests made while flushing wait for the next Flush.
func (q *Queue) Flush() int {
	batch := q.pending
	q.pending = nil
	for _, p := range batch {
		p.fn()
	}
	return len(batch)
}
