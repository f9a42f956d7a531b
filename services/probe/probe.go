// Package probe implements connectivity checks for registered connections.
// Native drivers are used where available (MySQL, PostgreSQL, Neo4j); other
// host/port kinds fall back to a TCP dial and API kinds to an HTTP request.
// Probes fail closed: any error becomes a failed result carrying the driver
// message verbatim, never a retry.
package probe

import (
	"context"
	"time"

	"camsapi/models"
)

// Result is the outcome of one connectivity probe.
type Result struct {
	Success  bool
	Message  string
	Duration time.Duration
}

// Prober tests connectivity for a single connection descriptor.
type Prober interface {
	Probe(ctx context.Context, conn *models.DatabaseConnection) Result
}

type prober struct{}

// New creates the default prober.
func New() Prober {
	return prober{}
}

// Probe dispatches to the kind-specific check and measures its duration.
func (p prober) Probe(ctx context.Context, conn *models.DatabaseConnection) Result {
	start := time.Now()

	var err error
	switch conn.Type {
	case models.TypeMySQL, models.TypeMariaDB, models.TypeRDS, models.TypeCloudSQL:
		err = probeMySQL(ctx, conn)
	case models.TypePostgreSQL, models.TypeRedshift:
		err = probePostgres(ctx, conn)
	case models.TypeNeo4j:
		err = probeNeo4j(ctx, conn)
	default:
		if conn.Type.IsAPI() {
			err = probeHTTP(ctx, conn)
		} else {
			err = probeTCP(ctx, conn)
		}
	}

	elapsed := time.Since(start)
	if err != nil {
		return Result{Success: false, Message: err.Error(), Duration: elapsed}
	}
	return Result{Success: true, Message: "connected successfully", Duration: elapsed}
}
