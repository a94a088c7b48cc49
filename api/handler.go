// Package api exposes the board service over HTTP under /api/gameoflife.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-api/model"
	"github.com/sheikhrachel/go-gol-api/service"
	"github.com/sheikhrachel/go-gol-api/store"
)

const (
	basePath = "/api/gameoflife"

	maxBodyBytes = 16 << 20
	msgInternal  = "An unexpected error occurred"
)

// BoardService is the subset of service.GameService the handlers call.
type BoardService interface {
	CreateRandomBoard(ctx context.Context, rows, cols int) (*model.Board, error)
	UploadBoard(ctx context.Context, grid [][]bool) (*model.Board, error)
	GetBoard(ctx context.Context, id string) (*model.Board, error)
	DeleteBoard(ctx context.Context, id string) (bool, error)
	ListBoardIDs(ctx context.Context) ([]string, error)
	NextGeneration(ctx context.Context, id string, autoSave bool) (*model.Board, error)
	Advance(ctx context.Context, id string, n int, autoSave bool) (*model.Board, error)
	FinalState(ctx context.Context, id string, maxIterations int, autoSave bool) (model.BoardState, error)
}

var _ BoardService = (*service.GameService)(nil)

// Options holds request defaults and collaborators for Handler.
type Options struct {
	DefaultRows          int
	DefaultCols          int
	DefaultMaxIterations int
	Logger               *log.Logger
	Now                  func() time.Time
}

// Handler serves the board API.
type Handler struct {
	svc    BoardService
	opts   Options
	logger *log.Logger
}

// NewHandler returns the routed API wrapped in recovery and request logging.
func NewHandler(svc BoardService, opts Options) http.Handler {
	if opts.DefaultRows <= 0 {
		opts.DefaultRows = 10
	}
	if opts.DefaultCols <= 0 {
		opts.DefaultCols = 10
	}
	if opts.DefaultMaxIterations <= 0 {
		opts.DefaultMaxIterations = 10000
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	h := &Handler{svc: svc, opts: opts, logger: opts.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+basePath+"/board/create", h.createBoard)
	mux.HandleFunc("POST "+basePath+"/board", h.uploadBoard)
	mux.HandleFunc("GET "+basePath+"/boards/ids", h.listBoardIDs)
	mux.HandleFunc("GET "+basePath+"/board/{boardId}", h.getBoard)
	mux.HandleFunc("GET "+basePath+"/board/{boardId}/next", h.nextGeneration)
	mux.HandleFunc("GET "+basePath+"/board/{boardId}/advance/{iterations}", h.advance)
	mux.HandleFunc("GET "+basePath+"/board/{boardId}/final", h.finalState)
	mux.HandleFunc("DELETE "+basePath+"/board/{boardId}", h.deleteBoard)

	return Chain(mux, RequestLog(opts.Logger), Recover(opts.Logger))
}

func (h *Handler) createBoard(w http.ResponseWriter, r *http.Request) {
	rows, err := intParam(r, "rows", h.opts.DefaultRows)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail[BoardIDResponse](err.Error()))
		return
	}
	cols, err := intParam(r, "cols", h.opts.DefaultCols)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail[BoardIDResponse](err.Error()))
		return
	}

	b, err := h.svc.CreateRandomBoard(r.Context(), rows, cols)
	if err != nil {
		h.writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, Ok(BoardIDResponse{BoardID: b.ID, Board: b.Grid}, "Initial board successfully created"))
}

func (h *Handler) uploadBoard(w http.ResponseWriter, r *http.Request) {
	var req UploadBoardRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail[BoardIDResponse]("Request body must be a JSON object with a grid"))
		return
	}

	b, err := h.svc.UploadBoard(r.Context(), req.Grid)
	if err != nil {
		h.writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, Ok(BoardIDResponse{BoardID: b.ID, Board: b.Grid}, "Board successfully uploaded"))
}

func (h *Handler) listBoardIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListBoardIDs(r.Context())
	if err != nil {
		h.writeError(w, err, "")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, Ok(ids, "Retrieved all board IDs"))
}

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("boardId")
	b, err := h.svc.GetBoard(r.Context(), id)
	if err != nil {
		h.writeError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.snapshot(b, ""), ""))
}

func (h *Handler) nextGeneration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("boardId")
	autoSave, err := boolParam(r, "autoSave")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail[BoardStateResponse](err.Error()))
		return
	}

	next, err := h.svc.NextGeneration(r.Context(), id, autoSave)
	if err != nil {
		h.writeError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.snapshot(next, ""), ""))
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("boardId")
	iterations, err := strconv.Atoi(r.PathValue("iterations"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail[BoardStateResponse]("iterations must be an integer"))
		return
	}
	autoSave, err := boolParam(r, "autoSave")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail[BoardStateResponse](err.Error()))
		return
	}

	future, err := h.svc.Advance(r.Context(), id, iterations, autoSave)
	if err != nil {
		h.writeError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.snapshot(future, fmt.Sprintf("Advanced %d generations", iterations)), ""))
}

func (h *Handler) finalState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("boardId")
	maxIterations, err := intParam(r, "maxIterations", h.opts.DefaultMaxIterations)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail[BoardStateResponse](err.Error()))
		return
	}
	autoSave, err := boolParam(r, "autoSave")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail[BoardStateResponse](err.Error()))
		return
	}

	state, err := h.svc.FinalState(r.Context(), id, maxIterations, autoSave)
	if err != nil {
		h.writeError(w, err, id)
		return
	}

	resp := BoardStateResponse{
		BoardID:     id,
		IsStable:    state.IsStable,
		IsCyclic:    state.IsCyclic,
		CycleLength: state.CycleLength,
		Outcome:     string(state.Outcome),
		Message:     state.Message,
		Timestamp:   h.opts.Now(),
	}
	if state.Board != nil {
		resp.BoardID = state.Board.ID
		resp.Grid = state.Board.Grid
		resp.Generation = state.Board.Generation
	}
	writeJSON(w, http.StatusOK, Ok(resp, ""))
}

func (h *Handler) deleteBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("boardId")
	deleted, err := h.svc.DeleteBoard(r.Context(), id)
	if err != nil {
		h.writeError(w, err, id)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, Fail[bool](notFoundMessage(id)))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true, fmt.Sprintf("Board %s deleted successfully", id)))
}

func (h *Handler) snapshot(b *model.Board, message string) BoardStateResponse {
	return BoardStateResponse{
		BoardID:    b.ID,
		Grid:       b.Grid,
		Generation: b.Generation,
		Message:    message,
		Timestamp:  h.opts.Now(),
	}
}

// writeError maps service errors onto status codes: validation 400,
// not-found 404, everything else 500.
func (h *Handler) writeError(w http.ResponseWriter, err error, id string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, Fail[any](ve.Reason))
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail[any](notFoundMessage(id)))
	default:
		h.logger.Printf("request failed: %+v", err)
		writeJSON(w, http.StatusInternalServerError, Fail[any](msgInternal))
	}
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("Board with ID %s not found", id)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", name)
	}
	return v, nil
}
