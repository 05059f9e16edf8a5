package export

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/qcline-sim/qcline-sim/sim"
)

const namespace = "qcline"

// NewKPIRegistry publishes a finished run's KPIs as gauges on a private
// registry. Per-station gauges carry a "station" label.
func NewKPIRegistry(k *sim.KPIs) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	line := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
		g.Set(v)
		reg.MustRegister(g)
	}
	line("good_parts", "Parts classified PASS.", float64(k.Good))
	line("scrap_parts", "Parts scrapped, including rework-limit scraps.", float64(k.Scrap))
	line("rework_attempts", "REWORK classifications.", float64(k.Rework))
	line("forced_scrap_parts", "Parts scrapped because the rework limit was reached.", float64(k.ForcedScrap))
	line("parts_created", "Parts that arrived.", float64(k.PartsCreated))
	line("parts_in_flight", "Parts neither passed nor scrapped at the horizon.", float64(k.InFlight))
	line("throughput_per_hour", "Good parts per post-warm-up hour.", k.Throughput)
	line("first_pass_yield_ratio", "Good parts over finished parts.", k.FPY)
	line("scrap_rate_ratio", "Scrapped parts over finished parts.", k.ScrapRate)
	line("horizon_minutes", "Simulated horizon.", k.HorizonMin)
	line("warmup_minutes", "Warm-up excluded from throughput and utilization.", k.WarmupMin)

	cycle := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cycle_time_minutes",
		Help:      "Cycle time of passed parts born after warm-up.",
	}, []string{"stat"})
	cycle.WithLabelValues("mean").Set(k.CycleTimeMean)
	cycle.WithLabelValues("p50").Set(k.CycleTimeP50)
	cycle.WithLabelValues("p95").Set(k.CycleTimeP95)
	reg.MustRegister(cycle)

	station := func(name, help string) *prometheus.GaugeVec {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "station",
			Name:      name,
			Help:      help,
		}, []string{"station"})
		reg.MustRegister(g)
		return g
	}
	util := station("utilization_ratio", "Busy time over post-warm-up elapsed time.")
	utilAfter := station("utilization_after_warmup_ratio", "Post-warm-up busy time over elapsed time and capacity.")
	avail := station("availability_ratio", "MTBF over MTBF+MTTR.")
	observed := station("observed_availability_ratio", "1 minus observed downtime over the horizon.")
	oee := station("oee_ratio", "Availability x performance x quality.")
	queue := station("avg_queue_length", "Mean wait-queue length seen by arriving parts.")
	failures := station("failures", "UP to DOWN transitions.")
	busy := station("busy_minutes", "Active processing time.")
	down := station("down_minutes", "Time spent DOWN.")
	bottleneck := station("bottleneck", "1 for the station with the highest utilization.")

	for _, sk := range k.Stations {
		util.WithLabelValues(sk.Name).Set(sk.Utilization)
		utilAfter.WithLabelValues(sk.Name).Set(sk.UtilizationAfterWarmup)
		avail.WithLabelValues(sk.Name).Set(sk.Availability)
		observed.WithLabelValues(sk.Name).Set(sk.ObservedAvailability)
		oee.WithLabelValues(sk.Name).Set(sk.OEE)
		queue.WithLabelValues(sk.Name).Set(sk.AvgQueueLen)
		failures.WithLabelValues(sk.Name).Set(float64(sk.Failures))
		busy.WithLabelValues(sk.Name).Set(sk.BusyTime)
		down.WithLabelValues(sk.Name).Set(sk.DownTime)
		if sk.Name == k.Bottleneck {
			bottleneck.WithLabelValues(sk.Name).Set(1)
		} else {
			bottleneck.WithLabelValues(sk.Name).Set(0)
		}
	}
	return reg
}

// WriteMetricsTextfile writes the KPIs in the Prometheus text format for a
// node-exporter textfile collector. The file is replaced atomically.
func WriteMetricsTextfile(path string, k *sim.KPIs) error {
	if err := prometheus.WriteToTextfile(path, NewKPIRegistry(k)); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
