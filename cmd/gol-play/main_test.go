package main

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/sheikhrachel/go-gol-api/utils"
)

func TestPlayReportsOutcome(t *testing.T) {
	var out bytes.Buffer
	opts := playOptions{rows: 8, cols: 8, maxIterations: 5, density: 0.3, seed: 11}

	if err := play(context.Background(), &out, opts); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out.String(), "outcome:") {
		t.Fatalf("output missing outcome line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Gen: 0") {
		t.Fatalf("output missing first frame:\n%s", out.String())
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := playOptions{rows: 8, cols: 8, maxIterations: 5, density: 0.3, seed: 11}
	if err := play(ctx, &out, opts); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out.String(), "Stopped at generation 0") {
		t.Fatalf("output = %q, want stop notice", out.String())
	}
}

func TestParseFlagsDefaultsFromConfig(t *testing.T) {
	config := utils.DefaultConfig()
	config.PlayDensity = 0.42
	config.MaxIterations = 77

	opts, err := parseFlags(flag.NewFlagSet("gol-play", flag.ContinueOnError), nil, config)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.density != 0.42 || opts.maxIterations != 77 {
		t.Fatalf("opts = %+v, want density 0.42 and max 77", opts)
	}

	opts, err = parseFlags(flag.NewFlagSet("gol-play", flag.ContinueOnError), []string{"-density", "0.9"}, config)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.density != 0.9 {
		t.Fatalf("density = %v, want flag value 0.9", opts.density)
	}
}
