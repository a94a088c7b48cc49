// Package convergence searches for the long-run behavior of a board:
// extinction, a fixed point, a periodic cycle, or none within a ceiling.
package convergence

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-api/engine"
	"github.com/sheikhrachel/go-gol-api/model"
)

// DefaultMaxIterations is the ceiling used when callers do not pick one.
const DefaultMaxIterations = 10000

// ErrNonPositiveIterations is returned for a ceiling below 1.
var ErrNonPositiveIterations = errors.New("max iterations must be positive")

const (
	msgExtinct   = "Board reached empty state"
	msgStable    = "Board reached stable state"
	msgCyclic    = "Board has a cycle of length %d"
	msgExhausted = "Board did not stabilize within %d iterations"
)

// FindFinalState steps b until a state repeats, the board dies out, or
// maxIterations states have been examined.
//
// Each examined state is fingerprinted and remembered with the index it was
// first seen at. A repeat at index i of a state first seen at s is a cycle of
// length i-s; length 1 is a fixed point. Extinction is checked on every newly
// computed generation, so it is reported one step before a repeat of the empty
// grid would be.
func FindFinalState(b *model.Board, maxIterations int) (model.BoardState, error) {
	if maxIterations <= 0 {
		return model.BoardState{}, errors.Wrapf(ErrNonPositiveIterations, "[FindFinalState] maxIterations=%d", maxIterations)
	}
	if err := b.Validate(); err != nil {
		return model.BoardState{}, errors.Wrap(err, "[FindFinalState]")
	}

	var (
		seen    = make(map[model.Fingerprint]int)
		current = b.Clone()
	)

	for i := range maxIterations {
		fp := current.Fingerprint()

		if cycleStart, ok := seen[fp]; ok {
			return cycleState(current, i-cycleStart, i), nil
		}
		seen[fp] = i

		next := engine.Step(current)
		if next.IsEmpty() {
			return model.BoardState{
				Board:      next,
				IsStable:   true,
				Message:    msgExtinct,
				Outcome:    model.OutcomeExtinct,
				Iterations: i + 1,
			}, nil
		}

		current = next
	}

	return model.BoardState{
		Board:      current,
		Message:    fmt.Sprintf(msgExhausted, maxIterations),
		Outcome:    model.OutcomeExhausted,
		Iterations: maxIterations,
	}, nil
}

func cycleState(b *model.Board, cycleLength, iteration int) model.BoardState {
	state := model.BoardState{
		Board:       b,
		IsStable:    cycleLength == 1,
		IsCyclic:    cycleLength > 1,
		CycleLength: cycleLength,
		Iterations:  iteration,
	}
	if state.IsStable {
		state.Message = msgStable
		state.Outcome = model.OutcomeStable
	} else {
		state.Message = fmt.Sprintf(msgCyclic, cycleLength)
		state.Outcome = model.OutcomeCyclic
	}
	return state
}
