package id

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// Strategy identifies the identifier generation algorithm to use.
type Strategy int

const (
	// StrategyKSUID generates lexicographically sortable identifiers using KSUID.
	StrategyKSUID Strategy = iota
	// StrategyUUIDv7 generates time-ordered identifiers using UUID version 7.
	StrategyUUIDv7
)

var (
	defaultGenerator = &Generator{strategy: StrategyKSUID}
)

// Generator produces identifiers for submissions, analyses and reports.
type Generator struct {
	mu       sync.RWMutex
	strategy Strategy
}

// SetStrategy configures the generation strategy for the default generator.
func SetStrategy(strategy Strategy) {
	defaultGenerator.setStrategy(strategy)
}

func (g *Generator) setStrategy(strategy Strategy) {
	g.mu.Lock()
	g.strategy = strategy
	g.mu.Unlock()
}

// NewSubmissionID generates an identifier for a stored survey submission.
func NewSubmissionID() string {
	return defaultGenerator.newIdentifier("sub")
}

// NewAnalysisID generates an identifier for an analysis record.
func NewAnalysisID() string {
	return defaultGenerator.newIdentifier("ana")
}

// NewReportID generates an identifier for a batch validation report.
func NewReportID() string {
	return defaultGenerator.newIdentifier("rep")
}

// NewRequestID generates an identifier for an inbound HTTP request.
func NewRequestID() string {
	return defaultGenerator.newIdentifier("req")
}

func (g *Generator) newIdentifier(prefix string) string {
	g.mu.RLock()
	strategy := g.strategy
	g.mu.RUnlock()

	var body string
	switch strategy {
	case StrategyUUIDv7:
		uuidv7, err := uuid.NewV7()
		if err == nil {
			body = uuidv7.String()
			break
		}
		body = ksuid.New().String()
	default:
		body = ksuid.New().String()
	}

	return fmt.Sprintf("%s-%s", prefix, body)
}
