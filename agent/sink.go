package agent

import (
	"fmt"

	"github.com/nstehr/overmind/ipc"
	"github.com/nstehr/overmind/rules"
)

// Caller sends a command to the bridge and waits for its result.
type Caller interface {
	Call(msgType string, data any) (ipc.CommandResult, error)
}

// connSink issues decisions over an ipc connection.
type connSink struct {
	conn Caller
}

// NewSink returns an ActionSink that forwards to the bridge behind c.
func NewSink(c Caller) rules.ActionSink {
	return &connSink{conn: c}
}

func (s *connSink) IssueProduction(kind rules.ActionKind) error {
	if !kind.Valid() {
		return &rules.ActionError{Kind: kind, Err: rules.ErrActionRejected}
	}
	info := kind.Info()

	msgType, data := ipc.TypeTrain, any(ipc.TrainCommand{UnitType: info.UnitType})
	if info.Structure {
		msgType, data = ipc.TypeBuild, ipc.BuildCommand{UnitType: info.UnitType}
	}

	res, err := s.conn.Call(msgType, data)
	if err != nil {
		return &rules.ActionError{Kind: kind, Err: fmt.Errorf("%w: %w", rules.ErrActionRejected, err)}
	}
	if !res.OK {
		return rules.NewActionError(kind, res.Error)
	}
	return nil
}

func (s *connSink) IssueWorkerTask(workerID int, task rules.WorkerTask) error {
	msgType := ipc.TypeGather
	if task == rules.ReturnCargo {
		msgType = ipc.TypeReturnCargo
	}

	res, err := s.conn.Call(msgType, ipc.WorkerCommand{ActorID: uint32(workerID)})
	if err != nil {
		return fmt.Errorf("%s worker %d: %w", task, workerID, err)
	}
	if !res.OK {
		return fmt.Errorf("%s worker %d: %w (%s)", task, workerID, rules.ErrorFromCode(res.Error), res.Error)
	}
	return nil
}
