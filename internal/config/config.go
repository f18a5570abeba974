package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Node is a simulated node and the offset of its physical clock.
type Node struct {
	ID   string
	Skew time.Duration
}

// Config holds the simulation configuration.
type Config struct {
	Nodes    []Node
	Messages int   // messages sent by each node
	Seed     int64 // seed for peer selection
	Verbose  bool
}

// ParseNodes parses a comma-separated list of nodes in the format:
// "id1,id2=+5ms,id3=-2ms"
// The optional duration after '=' is the node's clock skew.
func ParseNodes(nodesStr string) ([]Node, error) {
	if strings.TrimSpace(nodesStr) == "" {
		return []Node{}, nil
	}

	parts := strings.Split(nodesStr, ",")
	nodes := make([]Node, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		id := strings.TrimSpace(kv[0])
		if id == "" {
			return nil, fmt.Errorf("node ID cannot be empty: %s", part)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate node ID: %s", id)
		}
		seen[id] = true

		var skew time.Duration
		if len(kv) == 2 {
			var err error
			skew, err = time.ParseDuration(strings.TrimSpace(kv[1]))
			if err != nil {
				return nil, fmt.Errorf("invalid skew for node %s: %w", id, err)
			}
		}

		nodes = append(nodes, Node{
			ID:   id,
			Skew: skew,
		})
	}

	return nodes, nil
}

// DefaultNodes returns n nodes with random IDs and no skew.
func DefaultNodes(n int) []Node {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = Node{ID: uuid.NewString()[:8]}
	}
	return nodes
}

// Validate checks that the configuration can be simulated.
func (c *Config) Validate() error {
	if len(c.Nodes) < 2 {
		return fmt.Errorf("need at least 2 nodes, got %d", len(c.Nodes))
	}
	if c.Messages < 0 {
		return fmt.Errorf("messages cannot be negative: %d", c.Messages)
	}
	seen := make(map[string]bool, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node ID cannot be empty")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node ID: %s", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// NodeIDs returns the IDs of all configured nodes.
func (c *Config) NodeIDs() []string {
	ids := make([]string, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
