package trace

import "context"

// Recorder ties one run's events to a store: it owns the run identifier
// and the logical clock stamping each event.
type Recorder struct {
	store *Store
	runID string
	clock *Clock
}

// NewRecorder begins a run in the store and returns its recorder.
func NewRecorder(ctx context.Context, store *Store, model string, frequency uint32) (*Recorder, error) {
	runID, err := store.BeginRun(ctx, model, frequency)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		store: store,
		runID: runID,
		clock: NewClock(),
	}, nil
}

// RunID returns the run identifier.
func (r *Recorder) RunID() string {
	return r.runID
}

// Cycle records the state produced by one run cycle.
func (r *Recorder) Cycle(ctx context.Context, state string) error {
	return r.store.WriteCycle(ctx, r.runID, r.clock.Next(), state)
}

// UARTByte records one byte emitted on the UART bridge.
func (r *Recorder) UARTByte(ctx context.Context, value byte) error {
	return r.store.WriteUARTByte(ctx, r.runID, r.clock.Next(), value)
}
