package model

// RunState represents the lifecycle of the single download worker
type RunState string

const (
	// RunStateIdle means no worker is active
	RunStateIdle RunState = "Idle"

	// RunStateRunning means the external process is alive and being read
	RunStateRunning RunState = "Running"

	// RunStateCanceling means cancellation was requested and the worker has
	// not yet observed it
	RunStateCanceling RunState = "Canceling"
)

// String returns the string representation of RunState
func (rs RunState) String() string {
	return string(rs)
}

// IsActive returns true if a worker currently owns the process handle
func (rs RunState) IsActive() bool {
	return rs == RunStateRunning || rs == RunStateCanceling
}

// OutcomeKind classifies how a run ended
type OutcomeKind string

const (
	// OutcomeSuccess means the external tool exited with code zero
	OutcomeSuccess OutcomeKind = "Success"

	// OutcomeFailed covers pre-launch errors, mid-run read errors and
	// nonzero exit codes
	OutcomeFailed OutcomeKind = "Failed"

	// OutcomeCanceled means the user requested cancellation; it is neither
	// a success nor a failure
	OutcomeCanceled OutcomeKind = "Canceled"
)

// String returns the string representation of OutcomeKind
func (ok OutcomeKind) String() string {
	return string(ok)
}

// Outcome is the single terminal notification delivered for every run.
type Outcome struct {
	Kind     OutcomeKind
	Message  string
	ExitCode int // meaningful only when Kind is OutcomeFailed after a launch
}

// Succeeded reports whether the run completed normally.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}
