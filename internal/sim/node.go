package sim

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	clocks "github.com/vimeo/go-clocks"
	"logicalclocks/internal/codec"
	"logicalclocks/internal/hybrid"
	"logicalclocks/internal/lamport"
	"logicalclocks/internal/vector"
)

// message is what travels between nodes. Timestamps are carried encoded.
type message struct {
	id      uuid.UUID
	from    string
	lamport []byte
	vector  []byte
	hybrid  []byte
}

type node struct {
	id      string
	verbose bool

	lamport *lamport.Clock[int64]
	vector  *vector.Clock[string, int64]
	hybrid  *hybrid.Clock[int64, uint32]

	inbox chan message

	// history is appended by the vector clock hook, which runs under the
	// vector clock's lock.
	history []vector.Timestamp[string, int64]

	events *eventLog
}

func newNode(id string, skew time.Duration, physical clocks.Clock, inboxSize int, events *eventLog, verbose bool) (*node, error) {
	n := &node{
		id:      id,
		verbose: verbose,
		inbox:   make(chan message, inboxSize),
		events:  events,
	}

	initial, err := vector.NewTimestamp(map[string]int64{id: 0})
	if err != nil {
		return nil, err
	}
	n.vector, err = vector.NewStringInt64(id, initial, n.recordVector)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", id, err)
	}

	n.lamport = lamport.NewInt64(0, nil)
	n.hybrid = hybrid.New(
		hybrid.Timestamp[int64, uint32]{},
		0,
		func() int64 { return physical.Now().Add(skew).UnixNano() },
		func(l uint32) uint32 { return l + 1 },
		nil,
	)
	return n, nil
}

func (n *node) recordVector(ts vector.Timestamp[string, int64]) error {
	n.history = append(n.history, ts)
	return nil
}

func (n *node) logf(format string, args ...interface{}) {
	if n.verbose {
		log.Printf("[%s] "+format, append([]interface{}{n.id}, args...)...)
	}
}

// tick advances all clocks for an event on this node.
func (n *node) tick(kind Kind, msgID uuid.UUID, peer string) (Event, error) {
	l, err := n.lamport.Tick()
	if err != nil {
		return Event{}, err
	}
	v, err := n.vector.Tick()
	if err != nil {
		return Event{}, err
	}
	h, err := n.hybrid.Tick()
	if err != nil {
		return Event{}, err
	}

	e := Event{
		Node:    n.id,
		Kind:    kind,
		MsgID:   msgID,
		Peer:    peer,
		Lamport: l,
		Vector:  v,
		Hybrid:  h,
	}
	n.events.add(e)
	return e, nil
}

func (n *node) local() error {
	e, err := n.tick(Local, uuid.Nil, "")
	if err != nil {
		return err
	}
	n.logf("local event: lamport=%d vector=%v hybrid=%v", e.Lamport, e.Vector, e.Hybrid)
	return nil
}

// send stamps a new message for peer.
func (n *node) send(peer string) (message, error) {
	id := uuid.New()
	e, err := n.tick(Send, id, peer)
	if err != nil {
		return message{}, err
	}
	n.logf("send %s to %s: lamport=%d vector=%v hybrid=%v", id, peer, e.Lamport, e.Vector, e.Hybrid)

	return message{
		id:      id,
		from:    n.id,
		lamport: codec.MarshalLamport(e.Lamport),
		vector:  codec.MarshalVector(e.Vector),
		hybrid:  codec.MarshalHybrid(e.Hybrid),
	}, nil
}

// receive folds the message's timestamps into the clocks, then ticks.
func (n *node) receive(msg message) error {
	l, err := codec.UnmarshalLamport(msg.lamport)
	if err != nil {
		return fmt.Errorf("message %s from %s: %w", msg.id, msg.from, err)
	}
	v, err := codec.UnmarshalVector(msg.vector)
	if err != nil {
		return fmt.Errorf("message %s from %s: %w", msg.id, msg.from, err)
	}
	h, err := codec.UnmarshalHybrid(msg.hybrid)
	if err != nil {
		return fmt.Errorf("message %s from %s: %w", msg.id, msg.from, err)
	}

	if _, err := n.lamport.Tock(l); err != nil {
		return err
	}
	if _, err := n.vector.Tock(v); err != nil {
		return err
	}
	if _, err := n.hybrid.Tock(h); err != nil {
		return err
	}

	e, err := n.tick(Receive, msg.id, msg.from)
	if err != nil {
		return err
	}
	n.logf("receive %s from %s: lamport=%d vector=%v hybrid=%v", msg.id, msg.from, e.Lamport, e.Vector, e.Hybrid)
	return nil
}
