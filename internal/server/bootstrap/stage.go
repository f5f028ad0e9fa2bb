package bootstrap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/taejunjeon/leadership/internal/logging"
)

// Stage is one startup step.
type Stage struct {
	Name string
	// Required stages abort startup on failure; others mark the component
	// degraded and startup continues.
	Required bool
	Init     func() error
}

// Degraded tracks optional components that failed to start.
type Degraded struct {
	mu         sync.RWMutex
	components map[string]string
}

func NewDegraded() *Degraded {
	return &Degraded{components: make(map[string]string)}
}

// Record marks name as degraded.
func (d *Degraded) Record(name, reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.components[name] = reason
}

// Map snapshots the degraded components.
func (d *Degraded) Map() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.components))
	for k, v := range d.components {
		out[k] = v
	}
	return out
}

// Names lists degraded components in order.
func (d *Degraded) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.components))
	for name := range d.components {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (d *Degraded) IsEmpty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.components) == 0
}

// RunStages runs stages in order.
func RunStages(stages []Stage, degraded *Degraded, logger logging.Logger) error {
	logger = logging.OrNop(logger)
	for _, stage := range stages {
		logger.Debug("[Bootstrap] Running stage: %s (required=%v)", stage.Name, stage.Required)
		err := stage.Init()
		if err == nil {
			continue
		}
		if stage.Required {
			return fmt.Errorf("required stage %q failed: %w", stage.Name, err)
		}
		logger.Warn("[Bootstrap] Optional stage %q failed: %v (continuing in degraded mode)", stage.Name, err)
		if degraded != nil {
			degraded.Record(stage.Name, err.Error())
		}
	}
	return nil
}
