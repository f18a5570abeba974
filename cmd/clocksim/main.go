package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"logicalclocks/internal/config"
	"logicalclocks/internal/sim"
)

func main() {
	nodesFlag := flag.String("nodes", "", "comma-separated nodes with optional clock skew, e.g. n1,n2=+5ms,n3=-2ms")
	count := flag.Int("count", 3, "number of generated nodes when -nodes is empty")
	messages := flag.Int("messages", 20, "messages sent by each node")
	seed := flag.Int64("seed", 1, "seed for peer selection")
	verbose := flag.Bool("v", false, "log every event")
	flag.Parse()

	nodes, err := config.ParseNodes(*nodesFlag)
	if err != nil {
		log.Fatalf("Invalid -nodes: %v", err)
	}
	if len(nodes) == 0 {
		nodes = config.DefaultNodes(*count)
	}

	cfg := &config.Config{
		Nodes:    nodes,
		Messages: *messages,
		Seed:     *seed,
		Verbose:  *verbose,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := sim.Run(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	if err := sim.Verify(res); err != nil {
		log.Printf("Causality violations:\n%v", err)
		stop()
		os.Exit(1)
	}

	fmt.Printf("%d nodes, %d events, all sends ordered before their receives\n", len(res.NodeIDs), len(res.Events))
	for _, id := range res.NodeIDs {
		fmt.Printf("  %s final %v\n", id, res.Final[id])
	}
	fmt.Printf("frontier: %s\n", strings.Join(sim.Frontier(res), ", "))
}
