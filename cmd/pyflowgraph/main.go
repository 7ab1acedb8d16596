// SPDX-License-Identifier: Apache-2.0

// Command pyflowgraph loads a graph document and runs it once in batch
// mode, printing the execution log to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pyflowgraph/engine"
	"pyflowgraph/format"
	"pyflowgraph/graph"
	"pyflowgraph/interp/local"
	"pyflowgraph/log"
)

func main() {
	path := flag.String("file", "", "path to a .md or .json graph document")
	level := flag.String("log-level", log.LevelInfo, "log level: debug, info, warn, error, fatal")
	flag.Parse()

	log.SetLevel(*level)

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: pyflowgraph -file <graph.md|graph.json>")
		os.Exit(2)
	}

	if err := run(*path); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read graph file: %w", err)
	}

	rec, err := format.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse graph file: %w", err)
	}

	g := graph.Deserialize(rec, graph.Point{})
	rt := local.New()
	executor := engine.NewBatchExecutor(g, rt)

	ctx := context.Background()
	return executor.Execute(ctx, func(line string) {
		fmt.Println(line)
	})
}
