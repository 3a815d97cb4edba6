package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckDatabase   = "database"
	CheckCatalog    = "catalog"
	CheckCategories = "categories"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// UnsafeCategories lists categories on or below a parent cycle.
	UnsafeCategories []int64
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	catalog Snapshotter
}

// New creates a Service. catalog can be nil.
func New(db DBPinger, catalog Snapshotter) *Service {
	return &Service{db: db, catalog: catalog}
}

// Check runs health checks against all components.
// Cyclic categories degrade the service; searches still run around them.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	var unsafe []int64

	if err := s.db.Ping(ctx); err != nil {
		checks[CheckDatabase] = CheckError
	} else {
		checks[CheckDatabase] = CheckOK
	}

	if s.catalog != nil {
		snap, err := s.catalog.Snapshot(ctx)
		if err != nil {
			checks[CheckCatalog] = CheckError
		} else {
			checks[CheckCatalog] = CheckOK
			for _, id := range snap.Tree().Unsafe() {
				unsafe = append(unsafe, int64(id))
			}
			if len(unsafe) > 0 {
				checks[CheckCategories] = CheckError
			} else {
				checks[CheckCategories] = CheckOK
			}
		}
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks, UnsafeCategories: unsafe}
}
