package plugins

import (
	"context"
	"fmt"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/script"
)

// SingleTitle is the title of the single shot script
const SingleTitle = "Single shot"

// single takes one picture. It has no configuration options.
type single struct{}

// NewSingle creates the single shot script
func NewSingle() *script.Simple {
	return script.NewSimple(SingleTitle, single{})
}

func (single) Execute(ctx context.Context, a automata.Automata, t *script.Task) error {
	if a == nil {
		return fmt.Errorf("no camera automata")
	}
	go func() {
		if err := a.Capture(ctx); err != nil {
			t.ReturnError(err)
			return
		}
		t.ReturnSuccess()
	}()
	return nil
}
