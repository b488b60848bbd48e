package download

import "sync"

// Subscription detaches one handler from a signal
type Subscription struct {
	once   sync.Once
	detach func()
}

// Unsubscribe detaches the handler. Calling it more than once, or on a nil
// subscription, is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.detach)
}

type handler[T any] struct {
	id uint64
	fn func(T)
}

// signal is a list of handlers called in subscription order
type signal[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []handler[T]
}

func (s *signal[T]) connect(fn func(T)) *Subscription {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, handler[T]{id: id, fn: fn})
	s.mu.Unlock()

	return &Subscription{detach: func() { s.disconnect(id) }}
}

func (s *signal[T]) disconnect(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.handlers {
		if h.id == id {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return
		}
	}
}

func (s *signal[T]) connected(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.handlers {
		if h.id == id {
			return true
		}
	}
	return false
}

// emit calls a snapshot of the handlers. A handler removed by an earlier
// handler of the same emission is skipped.
func (s *signal[T]) emit(v T) {
	s.mu.Lock()
	snapshot := make([]handler[T], len(s.handlers))
	copy(snapshot, s.handlers)
	s.mu.Unlock()

	for _, h := range snapshot {
		if s.connected(h.id) {
			h.fn(v)
		}
	}
}

func (s *signal[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// TransferSignals carries the notifications every Transfer raises. Embed it
// in a Transfer implementation and call the Emit methods.
type TransferSignals struct {
	progress    signal[struct{}]
	destination signal[struct{}]
	response    signal[struct{}]
	finished    signal[struct{}]
	failed      signal[error]
}

// OnProgress subscribes to received-length changes
func (s *TransferSignals) OnProgress(fn func()) *Subscription {
	return s.progress.connect(func(struct{}) { fn() })
}

// OnDestinationChanged subscribes to destination changes
func (s *TransferSignals) OnDestinationChanged(fn func()) *Subscription {
	return s.destination.connect(func(struct{}) { fn() })
}

// OnResponse subscribes to the arrival of the response headers
func (s *TransferSignals) OnResponse(fn func()) *Subscription {
	return s.response.connect(func(struct{}) { fn() })
}

// OnFinished subscribes to successful completion
func (s *TransferSignals) OnFinished(fn func()) *Subscription {
	return s.finished.connect(func(struct{}) { fn() })
}

// OnFailed subscribes to failure, cancellation included
func (s *TransferSignals) OnFailed(fn func(error)) *Subscription {
	return s.failed.connect(fn)
}

// EmitProgress notifies progress subscribers
func (s *TransferSignals) EmitProgress() { s.progress.emit(struct{}{}) }

// EmitDestinationChanged notifies destination subscribers
func (s *TransferSignals) EmitDestinationChanged() { s.destination.emit(struct{}{}) }

// EmitResponse notifies response subscribers
func (s *TransferSignals) EmitResponse() { s.response.emit(struct{}{}) }

// EmitFinished notifies completion subscribers
func (s *TransferSignals) EmitFinished() { s.finished.emit(struct{}{}) }

// EmitFailed notifies failure subscribers
func (s *TransferSignals) EmitFailed(err error) { s.failed.emit(err) }

// ProgressSubscribers returns the number of progress handlers
func (s *TransferSignals) ProgressSubscribers() int { return s.progress.len() }

// DestinationSubscribers returns the number of destination handlers
func (s *TransferSignals) DestinationSubscribers() int { return s.destination.len() }
