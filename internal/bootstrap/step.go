// SPDX-License-Identifier: MPL-2.0

package bootstrap

// Step is one unit of bootstrap work. Steps are pure registrations: nothing
// executes until Run is called with a Context.
type Step struct {
	// ID selects the step on the command line (`--only`).
	ID string
	// Title is the human-readable form used in logs.
	Title string
	// Run performs the work. Errors halt the whole run; there is no
	// rollback or checkpointing.
	Run func(*Context) error
}

// Wrap returns a step whose Run logs the start, failure, and completion of
// the wrapped step, indenting any log output produced while it executes.
func Wrap(s Step) Step {
	return Step{
		ID:    s.ID,
		Title: s.Title,
		Run: func(c *Context) error {
			c.Log.Infof("Running %s", s.Title)
			release := c.Log.Indent()
			defer release()

			if err := s.Run(c); err != nil {
				c.Log.Errorf("%s failed: %v", s.Title, err)
				return err
			}

			c.Log.Infof("Finished %s", s.Title)
			return nil
		},
	}
}

// RunAll wraps and executes steps in order, stopping at the first failure.
func RunAll(c *Context, steps []Step) error {
	for _, s := range steps {
		if err := Wrap(s).Run(c); err != nil {
			return err
		}
	}
	return nil
}

// Filter returns the steps whose IDs are listed in only. An empty filter
// keeps everything. Order follows the original registration, not the filter.
func Filter(steps []Step, only []string) []Step {
	if len(only) == 0 {
		return steps
	}
	wanted := make(map[string]struct{}, len(only))
	for _, id := range only {
		wanted[id] = struct{}{}
	}
	kept := make([]Step, 0, len(steps))
	for _, s := range steps {
		if _, ok := wanted[s.ID]; ok {
			kept = append(kept, s)
		}
	}
	return kept
}
