package domain

import (
	"fmt"
	"sort"
)

// Status is the verdict of one validator or of a whole run.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// ValidatorResult is the outcome of one validator inside an aggregate run.
type ValidatorResult struct {
	Name     string `json:"name"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Status   Status `json:"status"`
	// ScriptError is set when the validator itself failed to run
	// (timeout, panic, failed to start).
	ScriptError string  `json:"script_error,omitempty"`
	Report      *Report `json:"report,omitempty"`
}

// NewValidatorResult derives counts and status from a completed report.
func NewValidatorResult(name string, r *Report) ValidatorResult {
	res := ValidatorResult{Name: name, Report: r, Errors: r.Errors(), Warnings: r.Warnings()}
	res.Status = statusFor(res.Errors)
	return res
}

// NewScriptErrorResult records a validator that could not complete. It
// contributes exactly one error.
func NewScriptErrorResult(name string, err error) ValidatorResult {
	return ValidatorResult{
		Name:        name,
		Errors:      1,
		Status:      StatusFail,
		ScriptError: err.Error(),
	}
}

// AggregateResult merges the results of every validator in a run.
type AggregateResult struct {
	Root          string            `json:"root"`
	Commit        string            `json:"commit,omitempty"`
	Validators    []ValidatorResult `json:"validators"`
	Notices       []Finding         `json:"notices,omitempty"`
	TotalErrors   int               `json:"total_errors"`
	TotalWarnings int               `json:"total_warnings"`
	Status        Status            `json:"status"`
}

// Aggregate sums the results, sorted by validator name, plus any run-level
// notices. The status is FAIL if and only if the total error count is positive.
func Aggregate(root string, results []ValidatorResult, notices []Finding) *AggregateResult {
	sorted := make([]ValidatorResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	agg := &AggregateResult{Root: root, Validators: sorted, Notices: notices}
	for _, r := range sorted {
		agg.TotalErrors += r.Errors
		agg.TotalWarnings += r.Warnings
	}
	for _, n := range notices {
		switch n.Severity {
		case SeverityError:
			agg.TotalErrors++
		case SeverityWarning:
			agg.TotalWarnings++
		}
	}
	agg.Status = statusFor(agg.TotalErrors)
	return agg
}

// Passed reports whether the run should exit zero.
func (a *AggregateResult) Passed() bool { return a.Status == StatusPass }

// Failure describes the failing part of a run for error messages.
func (a *AggregateResult) Failure() error {
	if a.Passed() {
		return nil
	}
	var failed []string
	for _, v := range a.Validators {
		if v.Status == StatusFail {
			failed = append(failed, v.Name)
		}
	}
	return fmt.Errorf("%d error(s) in %v", a.TotalErrors, failed)
}

func statusFor(errors int) Status {
	if errors > 0 {
		return StatusFail
	}
	return StatusPass
}
