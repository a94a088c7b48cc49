package utils

import (
	"fmt"
	"time"
)

// Stats tracks population over a run of generations
type Stats struct {
	Generation           int
	Population           int
	PeakPopulation       int
	AveragePopulation    float64
	Density              float64
	GenerationsPerSecond float64
	StartTime            time.Time
}

func NewStats(start time.Time) *Stats {
	return &Stats{StartTime: start}
}

// Observe records one generation of a width x height board.
func (s *Stats) Observe(generation, population, width, height int, elapsed time.Duration) {
	s.Generation = generation
	s.Population = population
	s.PeakPopulation = max(s.PeakPopulation, population)
	if cells := width * height; cells > 0 {
		s.Density = float64(population) / float64(cells) * 100
	}
	if elapsed > 0 {
		s.GenerationsPerSecond = 1.0 / elapsed.Seconds()
	}

	// Exponential moving average
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

func (s *Stats) String() string {
	return fmt.Sprintf("Gen: %d | Living: %d | Peak: %d | Density: %.1f%% | Avg Pop: %.1f | %.1f gen/sec",
		s.Generation, s.Population, s.PeakPopulation, s.Density, s.AveragePopulation, s.GenerationsPerSecond)
}
