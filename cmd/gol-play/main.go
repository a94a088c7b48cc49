// Command gol-play animates a random board in the terminal until it dies
// out, settles, cycles, or hits the iteration ceiling.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-api/convergence"
	"github.com/sheikhrachel/go-gol-api/engine"
	"github.com/sheikhrachel/go-gol-api/model"
	"github.com/sheikhrachel/go-gol-api/utils"
	"github.com/sheikhrachel/go-gol-api/validate"
)

type playOptions struct {
	rows, cols    int
	maxIterations int
	density       float64
	seed          int64
	frameRate     time.Duration
	clear         bool
}

func main() {
	config, err := utils.Load(os.Getenv("GOL_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	opts, err := parseFlags(flag.CommandLine, os.Args[1:], config)
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}

	validator := validate.NewBoardValidator(validate.Bounds{
		MinBoardSize:  config.MinBoardSize,
		MaxBoardSize:  config.MaxBoardSize,
		MaxIterations: config.MaxIterations,
	})
	if ok, reason := validator.ValidateDimensions(opts.rows, opts.cols); !ok {
		log.Fatal(reason)
	}
	if ok, reason := validator.ValidateIterationCount(opts.maxIterations); !ok {
		log.Fatal(reason)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := play(ctx, os.Stdout, opts); err != nil {
		log.Fatalf("play: %v", err)
	}
}

// parseFlags reads the player flags, taking defaults from config.
func parseFlags(fs *flag.FlagSet, args []string, config utils.Config) (playOptions, error) {
	opts := playOptions{}
	fs.IntVar(&opts.rows, "rows", 30, "board height")
	fs.IntVar(&opts.cols, "cols", 60, "board width")
	fs.IntVar(&opts.maxIterations, "max", config.MaxIterations, "generations to search before giving up")
	fs.Float64Var(&opts.density, "density", config.PlayDensity, "chance each cell starts alive")
	fs.Int64Var(&opts.seed, "seed", config.Seed, "random seed (0 picks one from the clock)")
	fs.DurationVar(&opts.frameRate, "frame", config.FrameRate.Duration, "delay between frames")
	fs.BoolVar(&opts.clear, "clear", true, "clear the terminal between frames")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

// play searches for the board's final state, then replays every generation up
// to it with live stats.
func play(ctx context.Context, out io.Writer, opts playOptions) error {
	board := model.NewFactory().Random(opts.rows, opts.cols, model.NewRNG(opts.seed), opts.density)

	state, err := convergence.FindFinalState(board, opts.maxIterations)
	if err != nil {
		return errors.Wrap(err, "[play] find final state")
	}

	var (
		renderer  = &model.TerminalRenderer{Out: out}
		stats     = utils.NewStats(time.Now())
		lastFrame = time.Now()
	)

	fmt.Fprintf(out, "Grid: %dx%d | Seed: %d | Initial living cells: %d\n", opts.cols, opts.rows, opts.seed, board.LiveCells())

	for current := board; current.Generation <= state.Board.Generation; current = engine.Step(current) {
		select {
		case <-ctx.Done():
			fmt.Fprintf(out, "\nStopped at generation %d\n", current.Generation)
			return nil
		default:
		}

		if opts.clear {
			if err := renderer.Clear(); err != nil {
				return errors.Wrap(err, "[play] clear")
			}
		}

		now := time.Now()
		stats.Observe(current.Generation, current.LiveCells(), current.Width(), current.Height(), now.Sub(lastFrame))
		lastFrame = now

		fmt.Fprintln(out, stats.String())
		if err := renderer.Display(current); err != nil {
			return errors.Wrap(err, "[play] display")
		}

		if opts.frameRate > 0 {
			time.Sleep(opts.frameRate)
		}
	}

	fmt.Fprintf(out, "\n%s (outcome: %s, after %.1fs)\n", state.Message, state.Outcome, time.Since(stats.StartTime).Seconds())
	return nil
}
