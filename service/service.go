// Package service wires the validator, the simulation engine and the board
// store into the operations exposed over HTTP.
package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-api/convergence"
	"github.com/sheikhrachel/go-gol-api/engine"
	"github.com/sheikhrachel/go-gol-api/model"
	"github.com/sheikhrachel/go-gol-api/store"
	"github.com/sheikhrachel/go-gol-api/validate"
)

// Options tunes a GameService. Zero values fall back to defaults, except
// Density: 0 makes every random cell dead and a negative value selects
// model.DefaultDensity.
type Options struct {
	Factory           model.Factory
	RNG               *rand.Rand
	Density           float64
	FinalIterationMax int
	Logger            *log.Logger
}

// GameService validates input, runs the engine and persists results.
//
// Loading, simulating and saving the same board concurrently is
// last-write-wins; the service does not serialize callers per board.
type GameService struct {
	store             store.Store
	validator         validate.Validator
	factory           model.Factory
	density           float64
	finalIterationMax int
	logger            *log.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New builds a GameService over st and v.
func New(st store.Store, v validate.Validator, opts Options) *GameService {
	if opts.Factory.NewID == nil || opts.Factory.Now == nil {
		defaults := model.NewFactory()
		if opts.Factory.NewID == nil {
			opts.Factory.NewID = defaults.NewID
		}
		if opts.Factory.Now == nil {
			opts.Factory.Now = defaults.Now
		}
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Density < 0 {
		opts.Density = model.DefaultDensity
	}
	if opts.FinalIterationMax <= 0 {
		opts.FinalIterationMax = convergence.DefaultMaxIterations
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	return &GameService{
		store:             st,
		validator:         v,
		factory:           opts.Factory,
		density:           opts.Density,
		finalIterationMax: opts.FinalIterationMax,
		logger:            opts.Logger,
		rng:               opts.RNG,
	}
}

// FinalIterationMax is the largest ceiling FinalState accepts.
func (s *GameService) FinalIterationMax() int {
	return s.finalIterationMax
}

// CreateRandomBoard builds and saves a rows x cols board of random cells.
func (s *GameService) CreateRandomBoard(ctx context.Context, rows, cols int) (*model.Board, error) {
	if ok, reason := s.validator.ValidateDimensions(rows, cols); !ok {
		return nil, invalid(reason)
	}

	s.rngMu.Lock()
	b := s.factory.Random(rows, cols, s.rng, s.density)
	s.rngMu.Unlock()

	s.logger.Printf("create random board board=%s size=%dx%d", b.ID, rows, cols)
	if _, err := s.SaveBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UploadBoard validates grid and saves it as a new generation-zero board.
func (s *GameService) UploadBoard(ctx context.Context, grid [][]bool) (*model.Board, error) {
	if ok, reason := s.validator.ValidateGrid(grid); !ok {
		return nil, invalid(reason)
	}

	b, err := s.factory.FromGrid(grid)
	if err != nil {
		return nil, errors.Wrap(err, "[UploadBoard] build board")
	}

	s.logger.Printf("upload board board=%s size=%dx%d", b.ID, b.Height(), b.Width())
	if _, err := s.SaveBoard(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBoard loads a board; missing or expired boards yield store.ErrNotFound.
func (s *GameService) GetBoard(ctx context.Context, id string) (*model.Board, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	b, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Printf("board not found board=%s", id)
			return nil, err
		}
		return nil, errors.Wrapf(err, "[GetBoard] load board %s", id)
	}
	return b, nil
}

// SaveBoard persists b and returns its ID.
func (s *GameService) SaveBoard(ctx context.Context, b *model.Board) (string, error) {
	id, err := s.store.Save(ctx, b)
	if err != nil {
		return "", errors.Wrapf(err, "[SaveBoard] save board %s", b.ID)
	}
	return id, nil
}

// DeleteBoard reports whether a board was removed.
func (s *GameService) DeleteBoard(ctx context.Context, id string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, errors.Wrapf(err, "[DeleteBoard] delete board %s", id)
	}
	if deleted {
		s.logger.Printf("deleted board board=%s", id)
	} else {
		s.logger.Printf("delete found no board board=%s", id)
	}
	return deleted, nil
}

// ListBoardIDs returns the IDs of all live boards.
func (s *GameService) ListBoardIDs(ctx context.Context) ([]string, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[ListBoardIDs] list board ids")
	}
	if len(ids) == 0 {
		s.logger.Printf("no boards exist")
	}
	return ids, nil
}

// NextGeneration computes the generation after the stored board and saves it
// when autoSave is set.
func (s *GameService) NextGeneration(ctx context.Context, id string, autoSave bool) (*model.Board, error) {
	b, err := s.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	next := engine.Step(b)
	s.logger.Printf("next generation board=%s generation=%d", id, next.Generation)

	if err := s.maybeSave(ctx, next, autoSave); err != nil {
		return nil, err
	}
	return next, nil
}

// Advance computes n generations ahead of the stored board.
func (s *GameService) Advance(ctx context.Context, id string, n int, autoSave bool) (*model.Board, error) {
	if ok, reason := s.validator.ValidateIterationCount(n); !ok {
		return nil, invalid(reason)
	}

	b, err := s.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	future, err := engine.Advance(b, n)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("advance board=%s n=%d generation=%d", id, n, future.Generation)

	if err := s.maybeSave(ctx, future, autoSave); err != nil {
		return nil, err
	}
	return future, nil
}

// FinalState searches up to maxIterations generations for the stored board's
// long-run behavior.
func (s *GameService) FinalState(ctx context.Context, id string, maxIterations int, autoSave bool) (model.BoardState, error) {
	if maxIterations < 1 || maxIterations > s.finalIterationMax {
		return model.BoardState{}, invalid(fmt.Sprintf("Max iterations must be between 1 and %d", s.finalIterationMax))
	}

	b, err := s.GetBoard(ctx, id)
	if err != nil {
		return model.BoardState{}, err
	}

	state, err := convergence.FindFinalState(b, maxIterations)
	if err != nil {
		return model.BoardState{}, err
	}

	if state.Converged() {
		s.logger.Printf("find final state board=%s outcome=%s cycle=%d iterations=%d", id, state.Outcome, state.CycleLength, state.Iterations)
	} else {
		s.logger.Printf("board=%s did not stabilize within %d iterations", id, maxIterations)
	}

	if state.Board != nil {
		if err := s.maybeSave(ctx, state.Board, autoSave); err != nil {
			return model.BoardState{}, err
		}
	}
	return state, nil
}

func (s *GameService) maybeSave(ctx context.Context, b *model.Board, autoSave bool) error {
	if !autoSave {
		return nil
	}
	_, err := s.SaveBoard(ctx, b)
	return err
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("Board ID cannot be null or empty")
	}
	return nil
}
