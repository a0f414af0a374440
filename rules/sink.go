package rules

// WorkerTask is an order the worker loop can give an idle worker.
type WorkerTask int

const (
	ReturnCargo WorkerTask = iota
	GatherNearest
)

func (t WorkerTask) String() string {
	switch t {
	case ReturnCargo:
		return "ReturnCargo"
	case GatherNearest:
		return "GatherNearest"
	}
	return "WorkerTask(?)"
}

// ActionSink executes decisions against the engine. IssueProduction trains a
// unit or starts a structure using any available production source and
// returns a non-nil error (usually an *ActionError) when the engine refuses.
type ActionSink interface {
	IssueProduction(kind ActionKind) error
	IssueWorkerTask(workerID int, task WorkerTask) error
}
