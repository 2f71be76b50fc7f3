package flatten

// Stage describes a high-level flatten phase.
type Stage string

const (
	// StageResolve covers import discovery and graph construction.
	StageResolve Stage = "resolve"
	// StageSort covers topological ordering.
	StageSort Stage = "sort"
	// StageEmit covers body cleaning and output.
	StageEmit Stage = "emit"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to be processed.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is currently being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished its current stage.
	StatusDone Status = "done"
	// StatusError indicates a fatal error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is
// empty).
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Err    error
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emitEvent(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
