package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-api/api"
	"github.com/sheikhrachel/go-gol-api/model"
	"github.com/sheikhrachel/go-gol-api/service"
	"github.com/sheikhrachel/go-gol-api/store"
	"github.com/sheikhrachel/go-gol-api/store/sqlite"
	"github.com/sheikhrachel/go-gol-api/utils"
	"github.com/sheikhrachel/go-gol-api/validate"
)

const shutdownTimeout = 10 * time.Second

// boardStore is a store that can purge expired boards.
type boardStore interface {
	store.Store
	store.Sweepable
}

// openStore picks SQLite when a path is configured and memory otherwise.
func openStore(config utils.Config) (boardStore, func() error, error) {
	if config.StorePath == "" {
		return store.NewMemoryStore(config.BoardTTL.Duration), func() error { return nil }, nil
	}

	st, err := sqlite.Open(config.StorePath, sqlite.WithTTL(config.BoardTTL.Duration))
	if err != nil {
		return nil, nil, errors.Wrap(err, "[openStore] open sqlite store")
	}
	return st, st.Close, nil
}

// newService wires the validator and store into a GameService
func newService(st store.Store, config utils.Config, logger *log.Logger) *service.GameService {
	validator := validate.NewBoardValidator(validate.Bounds{
		MinBoardSize:  config.MinBoardSize,
		MaxBoardSize:  config.MaxBoardSize,
		MaxIterations: config.MaxIterations,
	})

	rng := model.NewRNG(time.Now().UnixNano())
	if config.Seed != 0 {
		rng = model.NewRNG(config.Seed)
	}

	return service.New(st, validator, service.Options{
		Factory:           model.NewFactory(),
		RNG:               rng,
		Density:           config.RandomDensity,
		FinalIterationMax: config.FinalIterationMax,
		Logger:            logger,
	})
}

// run serves the API and sweeps expired boards until ctx is canceled.
func run(ctx context.Context, config utils.Config, logger *log.Logger) error {
	st, closeStore, err := openStore(config)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Printf("close store: %v", err)
		}
	}()

	svc := newService(st, config, logger)
	srv := &http.Server{
		Addr: config.Addr,
		Handler: api.NewHandler(svc, api.Options{
			DefaultRows:          config.DefaultRows,
			DefaultCols:          config.DefaultCols,
			DefaultMaxIterations: min(config.FinalIterationMax, 10000),
			Logger:               logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Printf("server listening at %s (store=%s ttl=%s)", config.Addr, storeKind(config), config.BoardTTL.Duration)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "[run] listen on %s", config.Addr)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "[run] shutdown")
		}
		return nil
	})

	eg.Go(func() error {
		sweeper := &store.Sweeper{
			Store:    st,
			Interval: config.SweepInterval.Duration,
			Logger:   logger,
		}
		return sweeper.Run(egCtx)
	})

	return eg.Wait()
}

func storeKind(config utils.Config) string {
	if config.StorePath == "" {
		return "memory"
	}
	return "sqlite:" + config.StorePath
}
