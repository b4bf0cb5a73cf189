package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the backend answers but a collection is unreadable.
	Degraded Status = "degraded"
	// Unhealthy indicates the backend is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckSkipped marks collection checks not run because the backend is down.
	CheckSkipped CheckResult = "skipped"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db          DBPinger
	counter     CollectionCounter
	collections []string
}

// New creates a Service. counter can be nil, in which case only the backend is checked.
func New(db DBPinger, counter CollectionCounter, collections ...string) *Service {
	return &Service{db: db, counter: counter, collections: collections}
}

// Check pings the backend and reads every watched collection.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 1+len(s.collections))

	dbUp := s.db.Ping(ctx) == nil
	if dbUp {
		checks["database"] = CheckOK
	} else {
		checks["database"] = CheckError
	}

	status := Healthy
	if !dbUp {
		status = Unhealthy
	}

	if s.counter != nil {
		for _, name := range s.collections {
			key := "collection:" + name
			switch {
			case !dbUp:
				checks[key] = CheckSkipped
			case s.countOK(ctx, name):
				checks[key] = CheckOK
			default:
				checks[key] = CheckError
				status = Degraded
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) countOK(ctx context.Context, collection string) bool {
	_, err := s.counter.Count(ctx, collection)
	return err == nil
}
