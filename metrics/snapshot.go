package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// SnapshotFrom gathers the current gauge and counter values from a Prometheus
// registry and converts them to Points suitable for PushSnapshot. Develop mode
// uses it to mirror the scrape registry to a remote write endpoint on a
// schedule. Histograms and summaries are skipped; remote write has no single
// sample that represents them.
func SnapshotFrom(g prometheus.Gatherer) ([]Point, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	now := time.Now()
	var points []Point
	for _, family := range families {
		for _, m := range family.GetMetric() {
			var value float64
			switch family.GetType() {
			case dto.MetricType_GAUGE:
				value = m.GetGauge().GetValue()
			case dto.MetricType_COUNTER:
				value = m.GetCounter().GetValue()
			default:
				continue
			}

			var labels map[string]string
			if pairs := m.GetLabel(); len(pairs) > 0 {
				labels = make(map[string]string, len(pairs))
				for _, pair := range pairs {
					labels[pair.GetName()] = pair.GetValue()
				}
			}

			points = append(points, Point{
				Name:      family.GetName(),
				Value:     value,
				Labels:    labels,
				Timestamp: now,
			})
		}
	}

	return points, nil
}
