package sim

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"logicalclocks/internal/vector"
)

// Verify checks the causal guarantees of a run:
//   - every message was received exactly once;
//   - the send of a message is ordered before its receive by all clocks;
//   - each node's committed vector timestamps strictly increase.
func Verify(res *Result) error {
	type exchange struct {
		send, recv *Event
	}
	exchanges := make(map[uuid.UUID]*exchange)

	var errs []error
	for i := range res.Events {
		e := &res.Events[i]
		if e.Kind == Local {
			continue
		}
		x := exchanges[e.MsgID]
		if x == nil {
			x = &exchange{}
			exchanges[e.MsgID] = x
		}
		switch e.Kind {
		case Send:
			x.send = e
		case Receive:
			if x.recv != nil {
				errs = append(errs, fmt.Errorf("message %s received twice", e.MsgID))
			}
			x.recv = e
		}
	}

	for id, x := range exchanges {
		if x.send == nil || x.recv == nil {
			errs = append(errs, fmt.Errorf("message %s: send or receive missing", id))
			continue
		}
		s, r := x.send, x.recv
		if s.Lamport >= r.Lamport {
			errs = append(errs, fmt.Errorf("message %s: lamport send %d not before receive %d", id, s.Lamport, r.Lamport))
		}
		if !s.Vector.Before(r.Vector) {
			errs = append(errs, fmt.Errorf("message %s: vector send %v not before receive %v", id, s.Vector, r.Vector))
		}
		if !s.Hybrid.Less(r.Hybrid) {
			errs = append(errs, fmt.Errorf("message %s: hybrid send %v not before receive %v", id, s.Hybrid, r.Hybrid))
		}
	}

	for _, id := range res.NodeIDs {
		history := res.History[id]
		for i := 1; i < len(history); i++ {
			if !history[i-1].Before(history[i]) {
				errs = append(errs, fmt.Errorf("node %s: commit %d %v not after %v", id, i, history[i], history[i-1]))
			}
		}
	}

	return errors.Join(errs...)
}

// Frontier returns the nodes whose final vector timestamps are not dominated
// by any other node's, in configuration order. More than one node means the
// run ended with concurrent states.
func Frontier(res *Result) []string {
	finals := make([]vector.Timestamp[string, int64], len(res.NodeIDs))
	for i, id := range res.NodeIDs {
		finals[i] = res.Final[id]
	}

	reconciled := vector.Reconcile(finals)
	frontier := make([]string, 0, len(reconciled.Winners))
	for _, i := range reconciled.Winners {
		frontier = append(frontier, res.NodeIDs[i])
	}
	return frontier
}
