package sim

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/nstehr/gridwars/gridwars-core/sim"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	applied   metric.Int64Counter
	rejected  metric.Int64Counter
	combats   metric.Int64Counter
	destroyed metric.Int64Counter
}

func newMetrics(m metric.Meter) (*metrics, error) {
	var (
		out metrics
		err error
	)

	out.applied, err = m.Int64Counter(
		"sim.commands.applied",
		metric.WithDescription("Commands that passed validation and changed state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating applied counter: %w", err)
	}

	out.rejected, err = m.Int64Counter(
		"sim.commands.rejected",
		metric.WithDescription("Commands rejected by validation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	out.combats, err = m.Int64Counter(
		"sim.combat.resolved",
		metric.WithDescription("Attacks resolved"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating combat counter: %w", err)
	}

	out.destroyed, err = m.Int64Counter(
		"sim.units.destroyed",
		metric.WithDescription("Units destroyed in combat"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}

	return &out, nil
}

// silentMetrics backs lookahead copies so planning does not inflate the
// match counters.
func silentMetrics() *metrics {
	m, _ := newMetrics(noop.Meter{})
	return m
}
