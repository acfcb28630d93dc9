package eventbus

import (
	"context"
	"sync"
)

// Recorder хранит последние события шины в кольцевом буфере
type Recorder struct {
	mu     sync.Mutex
	events []*Envelope
	next   int
	full   bool
	sub    Subscription
}

// NewRecorder подписывает кольцевой буфер размером size на события шины
func NewRecorder(bus EventBus, size int, f Filter) (*Recorder, error) {
	if size <= 0 {
		size = 1
	}
	r := &Recorder{events: make([]*Envelope, size)}
	sub, err := bus.Subscribe(context.Background(), f, func(ctx context.Context, ev *Envelope) {
		r.add(ev)
	})
	if err != nil {
		return nil, err
	}
	r.sub = sub
	return r, nil
}

func (r *Recorder) add(ev *Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[r.next] = ev
	r.next = (r.next + 1) % len(r.events)
	if r.next == 0 {
		r.full = true
	}
}

// Events возвращает сохранённые события от старых к новым
func (r *Recorder) Events() []*Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]*Envelope, r.next)
		copy(out, r.events[:r.next])
		return out
	}
	out := make([]*Envelope, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	return append(out, r.events[:r.next]...)
}

// Stop отписывает буфер от шины
func (r *Recorder) Stop() {
	r.sub.Unsubscribe()
}
