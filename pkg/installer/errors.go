package installer

import (
	"errors"
	"fmt"
)

// StepError reports a failed critical step. It aborts the remaining
// pipeline and may leave partial remote state behind; that is acceptable
// because every step is independently idempotent and the whole run can be
// re-executed from the top.
type StepError struct {
	// Step is the pipeline step that failed.
	Step string

	// Resource is the remote object involved, when known.
	Resource string

	// Err is the underlying failure.
	Err error
}

func (e *StepError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("step %s failed (resource=%s): %v", e.Step, e.Resource, e.Err)
	}
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Hint returns a remediation hint for the operator.
func (e *StepError) Hint() string {
	return "every step is idempotent: fix the cause and re-run the installer from the top"
}

// ItemError reports one failed best-effort item inside a step, currently
// always a single host-creation attempt. It is recovered, recorded in the
// run summary, and never affects the process exit status.
type ItemError struct {
	// Step is the best-effort step the item belongs to.
	Step string

	// Item identifies the failed item, e.g. the host address.
	Item string

	// Err is the underlying failure.
	Err error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Step, e.Item, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// IsStepError reports whether err is (or wraps) a critical step failure.
func IsStepError(err error) bool {
	var se *StepError
	return errors.As(err, &se)
}

// IsItemError reports whether err is (or wraps) a recovered per-item
// failure.
func IsItemError(err error) bool {
	var ie *ItemError
	return errors.As(err, &ie)
}
