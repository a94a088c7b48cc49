package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    T        `json:"data"`
	Errors  []string `json:"errors,omitempty"`
}

// Ok wraps data in a successful envelope.
func Ok[T any](data T, message string) APIResponse[T] {
	return APIResponse[T]{Success: true, Message: message, Data: data}
}

// Fail builds an unsuccessful envelope carrying message.
func Fail[T any](message string) APIResponse[T] {
	return APIResponse[T]{Message: message, Errors: []string{message}}
}

// BoardIDResponse is returned when a board is created or uploaded.
type BoardIDResponse struct {
	BoardID string   `json:"boardId"`
	Board   [][]bool `json:"board"`
}

// BoardStateResponse describes one board snapshot and, for final-state
// searches, how the search ended.
type BoardStateResponse struct {
	BoardID     string    `json:"boardId"`
	Grid        [][]bool  `json:"grid"`
	Generation  int       `json:"generation"`
	IsStable    bool      `json:"isStable"`
	IsCyclic    bool      `json:"isCyclic"`
	CycleLength int       `json:"cycleLength"`
	Outcome     string    `json:"outcome,omitempty"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// UploadBoardRequest is the body of POST /board.
type UploadBoardRequest struct {
	Grid [][]bool `json:"grid"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write json response: %v", err)
	}
}
