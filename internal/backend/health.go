package backend

import (
	"context"
	"time"
)

// HealthStatus summarizes whether the model server can be used
type HealthStatus string

const (
	// HealthGreen means the server answered and reported its version
	HealthGreen HealthStatus = "green"
	// HealthYellow means the server answered but the version check failed
	HealthYellow HealthStatus = "yellow"
	// HealthRed means the server could not be reached
	HealthRed HealthStatus = "red"
)

// HealthReport is the result of one health probe
type HealthReport struct {
	Status  HealthStatus
	Host    string
	Version string
	Latency time.Duration
	Err     *Error
}

// Check probes the server once. There are no retries.
func (b *OllamaBackend) Check(ctx context.Context) HealthReport {
	report := HealthReport{Host: b.host}
	start := time.Now()

	if err := b.client.Heartbeat(ctx); err != nil {
		report.Status = HealthRed
		report.Err = Decode(err, KindUnreachable, CodeListModels)
		report.Latency = time.Since(start)
		return report
	}
	report.Latency = time.Since(start)

	v, err := b.client.Version(ctx)
	if err != nil {
		report.Status = HealthYellow
		report.Err = Decode(err, KindRejected, CodeListModels)
		return report
	}

	report.Status = HealthGreen
	report.Version = v
	return report
}
