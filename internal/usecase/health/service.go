// Package health aggregates readiness checks: database connectivity plus
// which model artifacts are currently loaded. A missing artifact degrades
// the report rather than failing it — every artifact has a fallback path.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing check.
	CheckOK CheckResult = "ok"
	// CheckMissing indicates an artifact that has not been built or loaded.
	CheckMissing CheckResult = "missing"
	// CheckError indicates a failing check.
	CheckError CheckResult = "error"
)

// Report aggregates check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	artifacts []ArtifactChecker
}

// New creates a health service.
func New(db DBPinger, artifacts ...ArtifactChecker) *Service {
	return &Service{db: db, artifacts: artifacts}
}

// Check runs all checks. The database failing makes the service unhealthy;
// unloaded artifacts only degrade it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	for _, a := range s.artifacts {
		if a.Loaded() {
			checks[a.Name()] = CheckOK
			continue
		}
		checks[a.Name()] = CheckMissing
		if status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}
