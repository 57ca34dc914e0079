// Package memory records conversation runs - one input/output exchange per
// resolved task - so the enclosing loop can replay prior context into later
// prompts. The in-memory conversation is the unit of use; a Driver persists
// runs behind it.
package memory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"actioncore/internal/logging"
)

// Run is one completed exchange: the raw input a task resolved and the
// artifact value it produced.
type Run struct {
	ID     string `json:"id"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// NewRun creates a run with a fresh id.
func NewRun(input, output string) Run {
	return Run{ID: uuid.New().String(), Input: input, Output: output}
}

// Driver persists runs. Store appends one run; Load returns all persisted
// runs in insertion order.
type Driver interface {
	Store(run Run) error
	Load() ([]Run, error)
}

// Conversation is an ordered run history, optionally backed by a driver.
type Conversation struct {
	runs   []Run
	driver Driver
}

// NewConversation creates a conversation. A non-nil driver is loaded
// immediately so the history picks up where a previous session left off.
func NewConversation(driver Driver) (*Conversation, error) {
	c := &Conversation{driver: driver}
	if driver != nil {
		runs, err := driver.Load()
		if err != nil {
			return nil, fmt.Errorf("load conversation: %w", err)
		}
		c.runs = runs
		logging.MemoryDebug("Conversation loaded %d persisted runs", len(runs))
	}
	return c, nil
}

// AddRun appends a run and persists it through the driver, if any.
func (c *Conversation) AddRun(run Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	c.runs = append(c.runs, run)

	if c.driver != nil {
		if err := c.driver.Store(run); err != nil {
			return fmt.Errorf("store run %s: %w", run.ID, err)
		}
	}
	logging.MemoryDebug("Run %s recorded (%d total)", run.ID, len(c.runs))
	return nil
}

// Runs returns the run history in insertion order.
func (c *Conversation) Runs() []Run {
	return append([]Run(nil), c.runs...)
}

// IsEmpty reports whether the conversation holds no runs.
func (c *Conversation) IsEmpty() bool {
	return len(c.runs) == 0
}

// ToPromptString renders the most recent lastN runs as prompt context.
// A non-positive lastN renders the full history.
func (c *Conversation) ToPromptString(lastN int) string {
	runs := c.runs
	if lastN > 0 && len(runs) > lastN {
		runs = runs[len(runs)-lastN:]
	}

	var b strings.Builder
	for _, run := range runs {
		b.WriteString("Q: ")
		b.WriteString(run.Input)
		b.WriteString("\nA: ")
		b.WriteString(run.Output)
		b.WriteString("\n")
	}
	return b.String()
}

// ToJSON serializes the run history.
func (c *Conversation) ToJSON() (string, error) {
	data, err := json.Marshal(c.runs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON replaces the run history with the serialized form. The driver is
// left untouched; this is a rehydration path, not a persistence one.
func (c *Conversation) FromJSON(data string) error {
	var runs []Run
	if err := json.Unmarshal([]byte(data), &runs); err != nil {
		return fmt.Errorf("decode conversation: %w", err)
	}
	c.runs = runs
	return nil
}
