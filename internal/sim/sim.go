package sim

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	clocks "github.com/vimeo/go-clocks"
	"golang.org/x/sync/errgroup"
	"logicalclocks/internal/config"
	"logicalclocks/internal/hybrid"
	"logicalclocks/internal/vector"
)

// Kind is the kind of a simulated event.
type Kind int

const (
	// Local is an event that involves no other node.
	Local Kind = iota
	// Send is the sending of a message.
	Send
	// Receive is the delivery of a message.
	Receive
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Send:
		return "send"
	case Receive:
		return "receive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is a timestamped event on one node.
type Event struct {
	Node    string
	Kind    Kind
	MsgID   uuid.UUID // uuid.Nil for local events
	Peer    string    // receiver of a send, sender of a receive
	Lamport int64
	Vector  vector.Timestamp[string, int64]
	Hybrid  hybrid.Timestamp[int64, uint32]
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) add(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

// Result is the outcome of a simulation run.
type Result struct {
	// Events in the order they were recorded.
	Events []Event
	// Final vector timestamp of every node.
	Final map[string]vector.Timestamp[string, int64]
	// History holds every vector timestamp committed by each node, in
	// commit order.
	History map[string][]vector.Timestamp[string, int64]
	// NodeIDs in configuration order.
	NodeIDs []string
}

// Run simulates cfg. Every node sends cfg.Messages messages to random peers,
// with local events mixed in, while concurrently receiving. physical is the
// shared time source; each node reads it shifted by its skew. A nil physical
// uses the system clock.
func Run(ctx context.Context, cfg *config.Config, physical clocks.Clock) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if physical == nil {
		physical = clocks.DefaultClock()
	}

	events := &eventLog{}
	// every message fits, so senders never wait on a slow receiver
	inboxSize := len(cfg.Nodes) * cfg.Messages

	nodes := make([]*node, len(cfg.Nodes))
	for i, nc := range cfg.Nodes {
		n, err := newNode(nc.ID, nc.Skew, physical, inboxSize, events, cfg.Verbose)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}

	receivers, rctx := errgroup.WithContext(ctx)
	for _, n := range nodes {
		n := n
		receivers.Go(func() error {
			for {
				select {
				case msg, ok := <-n.inbox:
					if !ok {
						return nil
					}
					if err := n.receive(msg); err != nil {
						return err
					}
				case <-rctx.Done():
					return rctx.Err()
				}
			}
		})
	}

	senders, sctx := errgroup.WithContext(ctx)
	for i, n := range nodes {
		n := n
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		senders.Go(func() error {
			for m := 0; m < cfg.Messages; m++ {
				if err := sctx.Err(); err != nil {
					return err
				}
				if rng.Intn(3) == 0 {
					if err := n.local(); err != nil {
						return err
					}
				}

				peer := nodes[rng.Intn(len(nodes)-1)]
				if peer == n {
					peer = nodes[len(nodes)-1]
				}
				msg, err := n.send(peer.id)
				if err != nil {
					return err
				}

				select {
				case peer.inbox <- msg:
				case <-sctx.Done():
					return sctx.Err()
				}
			}
			return nil
		})
	}

	sendErr := senders.Wait()
	for _, n := range nodes {
		close(n.inbox)
	}
	recvErr := receivers.Wait()
	if sendErr != nil {
		return nil, fmt.Errorf("send: %w", sendErr)
	}
	if recvErr != nil {
		return nil, fmt.Errorf("receive: %w", recvErr)
	}

	res := &Result{
		Events:  events.events,
		Final:   make(map[string]vector.Timestamp[string, int64], len(nodes)),
		History: make(map[string][]vector.Timestamp[string, int64], len(nodes)),
		NodeIDs: cfg.NodeIDs(),
	}
	for _, n := range nodes {
		res.Final[n.id] = n.vector.LastTime()
		res.History[n.id] = n.history
	}

	if cfg.Verbose {
		log.Printf("simulation done: %d nodes, %d events", len(nodes), len(res.Events))
	}
	return res, nil
}
