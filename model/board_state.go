package model

// Outcome names how a convergence search ended.
type Outcome string

const (
	OutcomeExtinct   Outcome = "extinct"
	OutcomeStable    Outcome = "stable"
	OutcomeCyclic    Outcome = "cyclic"
	OutcomeExhausted Outcome = "exhausted"
)

// BoardState is the result of a convergence search. It is never persisted.
type BoardState struct {
	// Board is the terminal or last examined snapshot.
	Board       *Board  `json:"board,omitempty"`
	IsStable    bool    `json:"isStable"`
	IsCyclic    bool    `json:"isCyclic"`
	CycleLength int     `json:"cycleLength"`
	Message     string  `json:"message"`
	Outcome     Outcome `json:"outcome"`
	// Iterations is the loop index at which the search concluded.
	Iterations int `json:"iterations"`
}

// Converged reports whether the search reached a conclusion before the ceiling.
func (s BoardState) Converged() bool {
	return s.Outcome != OutcomeExhausted
}
