package h2session

import "sync"

// queuedFrame is either a ready-to-send control/header frame (fr set,
// isData false) or a pending DATA payload (isData true) whose bytes are
// carved into wire-sized, credit-sized chunks lazily by Next, so a stream
// that outruns its flow-control window withholds only the excess instead of
// blocking the whole frame behind it.
type queuedFrame struct {
	fr       *FrameHeader
	streamID uint32
	isData   bool

	payload   []byte
	endStream bool
}

// OutgoingQueue is the session's single write-side collaborator: every
// component that wants to put a frame on the wire enqueues it here instead
// of writing to the transport directly. The write pump drains the queue
// through Next, which splits a DATA entry to whatever the stream and
// connection windows currently admit, requeuing the remainder, so a stalled
// upload doesn't block unrelated control frames behind it.
type OutgoingQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []queuedFrame
	disposed bool

	flow *FlowControlManager
}

func newOutgoingQueue(flow *FlowControlManager) *OutgoingQueue {
	q := &OutgoingQueue{flow: flow}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends fr to the tail of the queue. streamID is 0 for
// connection-scoped frames (SETTINGS, PING, GOAWAY, connection WINDOW_UPDATE).
// fr must not be a DATA frame; use EnqueueData instead so its payload can be
// split to available flow-control credit.
func (q *OutgoingQueue) Enqueue(fr *FrameHeader, streamID uint32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.disposed {
		return
	}
	q.items = append(q.items, queuedFrame{fr: fr, streamID: streamID})
	q.cond.Broadcast()
}

// EnqueueData queues payload for delivery as one or more DATA frames on
// streamID. endStream, if set, is only carried by the final chunk actually
// written to the wire.
func (q *OutgoingQueue) EnqueueData(streamID uint32, payload []byte, endStream bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.disposed {
		return
	}
	q.items = append(q.items, queuedFrame{
		streamID:  streamID,
		isData:    true,
		payload:   payload,
		endStream: endStream,
	})
	q.cond.Broadcast()
}

// Next blocks until a frame is available to send and returns it. A DATA
// entry that doesn't fully fit its stream/connection window is split: the
// prefix that fits is returned now and the remainder stays queued in place,
// to be picked up once a WINDOW_UPDATE credits more room (see wake). It
// returns ok=false once the queue has been disposed and drained.
func (q *OutgoingQueue) Next() (fr *FrameHeader, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		for i := range q.items {
			it := &q.items[i]

			if !it.isData {
				fr := it.fr
				q.items = append(q.items[:i:i], q.items[i+1:]...)
				q.cond.Broadcast()
				return fr, true
			}

			avail := q.flow.sendCredit(it.streamID)
			if avail <= 0 {
				continue
			}
			// DefaultMaxFrameSize is the smallest SETTINGS_MAX_FRAME_SIZE a
			// peer may advertise, so a chunk of this size is always accepted.
			if avail > DefaultMaxFrameSize {
				avail = DefaultMaxFrameSize
			}

			chunk := it.payload
			final := true
			if int64(len(chunk)) > avail {
				chunk = it.payload[:avail]
				final = false
			}

			d := &Data{}
			d.SetData(chunk)
			if final && it.endStream {
				d.SetEndStream(true)
			}

			dhdr := AcquireFrameHeader()
			dhdr.SetStream(it.streamID)
			dhdr.SetBody(d)

			if final {
				q.items = append(q.items[:i:i], q.items[i+1:]...)
			} else {
				it.payload = it.payload[len(chunk):]
			}

			q.cond.Broadcast()
			return dhdr, true
		}

		if q.disposed {
			return nil, false
		}
		q.cond.Wait()
	}
}

// Flush blocks until the queue has no pending frames, confirming the drain
// instead of sleeping a fixed delay before disposing the session.
func (q *OutgoingQueue) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) > 0 && !q.disposed {
		q.cond.Wait()
	}
}

// Len reports the number of frames currently queued.
func (q *OutgoingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dispose marks the queue closed; Next unblocks any waiter and subsequent
// Enqueue calls are silently dropped. Safe to call more than once.
func (q *OutgoingQueue) Dispose() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.disposed {
		return
	}
	q.disposed = true
	q.cond.Broadcast()
}

// wake re-evaluates waiters, used after a WINDOW_UPDATE credits a window
// that may unblock a previously-skipped or partially-sent DATA entry.
func (q *OutgoingQueue) wake() {
	q.mu.Lock()
	q.cond.Broadcast()
	q.mu.Unlock()
}
