// Computes the post-run KPIs: throughput, first-pass yield, scrap rate,
// per-station utilization and OEE, and the bottleneck station.

package sim

import (
	"fmt"
	"io"
	"math"
	"sort"
)

// IdealCycleRatio is the fixed ideal-to-mean cycle time ratio used by the OEE
// performance term. Performance is therefore 1/0.95 for every station.
const IdealCycleRatio = 0.95

// StationKPI is the per-station slice of the KPI summary.
type StationKPI struct {
	Name        string
	Utilization float64 // busy time ÷ post-warm-up elapsed time
	// UtilizationAfterWarmup counts only busy time accrued after warm-up and
	// normalizes by capacity; it stays within [0, 1].
	UtilizationAfterWarmup float64
	Availability           float64 // MTBF ÷ (MTBF+MTTR); 1 for never-failing stations
	ObservedAvailability   float64 // 1 − DownTime ÷ horizon
	Performance            float64
	Quality                float64
	OEE                    float64
	AvgQueueLen            float64
	MaxQueueLen            int
	Visits                 int
	BusyTime               float64
	DownTime               float64
	Failures               int
}

// KPIs aggregates statistics about a finished run for reporting.
type KPIs struct {
	HorizonMin float64
	WarmupMin  float64

	Good         int
	Scrap        int
	Rework       int
	Total        int // Good + Scrap
	PartsCreated int
	InFlight     int
	ForcedScrap  int

	Throughput float64 // good parts per post-warm-up hour
	FPY        float64
	ScrapRate  float64

	CycleTimeMean float64
	CycleTimeP50  float64
	CycleTimeP95  float64

	Stations   []StationKPI // configuration order
	Bottleneck string       // station with maximum utilization
}

// ComputeKPIs derives the KPI summary from a finished run.
// Every ratio is zero-guarded: with no finished parts (or no post-warm-up
// time) yields, rates and OEE are reported as zero.
func ComputeKPIs(ctx *RunContext) *KPIs {
	cfg := ctx.Config
	sum := &ctx.Summary
	elapsed := cfg.HorizonMin - cfg.WarmupMin

	k := &KPIs{
		HorizonMin:   cfg.HorizonMin,
		WarmupMin:    cfg.WarmupMin,
		Good:         sum.Good,
		Scrap:        sum.Scrap,
		Rework:       sum.Rework,
		Total:        sum.Finished(),
		PartsCreated: sum.PartsCreated,
		InFlight:     sum.InFlight,
		ForcedScrap:  sum.ForcedScrap,
		Stations:     make([]StationKPI, 0, len(ctx.Order)),
	}
	if elapsed > 0 {
		k.Throughput = float64(sum.Good) / (elapsed / 60)
	}
	k.FPY = safeRatio(float64(sum.Good), float64(k.Total))
	k.ScrapRate = safeRatio(float64(sum.Scrap), float64(k.Total))

	k.CycleTimeMean = CalculateMean(sum.CycleTimes)
	if len(sum.CycleTimes) > 0 {
		sorted := append([]float64(nil), sum.CycleTimes...)
		sort.Float64s(sorted)
		k.CycleTimeP50 = CalculatePercentile(sorted, 50)
		k.CycleTimeP95 = CalculatePercentile(sorted, 95)
	}

	bestUtil := math.Inf(-1)
	for _, name := range ctx.Order {
		st := ctx.Stations[name]
		sk := stationKPI(st, elapsed, cfg.HorizonMin, k.FPY)
		if sk.Utilization > bestUtil {
			bestUtil = sk.Utilization
			k.Bottleneck = name
		}
		k.Stations = append(k.Stations, sk)
	}
	return k
}

func stationKPI(st *Station, elapsed, horizon, quality float64) StationKPI {
	sc := st.Config
	sk := StationKPI{
		Name:        sc.Name,
		Visits:      len(st.QueueSamples),
		BusyTime:    st.BusyTime,
		DownTime:    st.DownTime,
		Failures:    st.Failures,
		Quality:     quality,
		AvgQueueLen: CalculateMean(st.QueueSamples),
	}
	for _, q := range st.QueueSamples {
		sk.MaxQueueLen = max(sk.MaxQueueLen, q)
	}
	sk.Utilization = safeRatio(st.BusyTime, elapsed)
	sk.UtilizationAfterWarmup = safeRatio(st.BusyTimeAfterWarmup, elapsed*float64(sc.Capacity))

	if sc.NeverFails() {
		sk.Availability = 1.0
	} else {
		sk.Availability = safeRatio(sc.MTBF, sc.MTBF+sc.MTTR)
	}
	sk.ObservedAvailability = 1 - safeRatio(st.DownTime, horizon)

	idealCT := sc.CTMean * IdealCycleRatio
	sk.Performance = safeRatio(sc.CTMean, idealCT)
	sk.OEE = sk.Availability * sk.Performance * sk.Quality
	return sk
}

// Station returns the KPI entry for the named station.
func (k *KPIs) Station(name string) (StationKPI, bool) {
	for _, sk := range k.Stations {
		if sk.Name == name {
			return sk, true
		}
	}
	return StationKPI{}, false
}

// Print renders the console summary. It owns presentation only.
func (k *KPIs) Print(w io.Writer) {
	fmt.Fprintln(w, "\n============== SIMULATION SUMMARY ==============")
	fmt.Fprintf(w, "Good parts: %d\n", k.Good)
	fmt.Fprintf(w, "Scrap parts: %d\n", k.Scrap)
	fmt.Fprintf(w, "Rework attempts: %d\n", k.Rework)
	fmt.Fprintf(w, "Total processed: %d\n", k.Total)
	fmt.Fprintf(w, "Parts created: %d  |  In flight at horizon: %d\n", k.PartsCreated, k.InFlight)
	fmt.Fprintf(w, "Throughput (good/hr): %.2f\n", k.Throughput)
	fmt.Fprintf(w, "FPY: %.3f  |  Scrap rate: %.3f\n", k.FPY, k.ScrapRate)
	if k.CycleTimeMean > 0 {
		fmt.Fprintf(w, "Cycle time (min): mean %.2f  |  p50 %.2f  |  p95 %.2f\n",
			k.CycleTimeMean, k.CycleTimeP50, k.CycleTimeP95)
	}
	fmt.Fprintln(w, "Utilization by station:")
	for _, s := range k.Stations {
		fmt.Fprintf(w, " - %s: %.1f%%  |  OEE: %.1f%%  |  failures: %d  |  avg queue: %.2f\n",
			s.Name, s.Utilization*100, s.OEE*100, s.Failures, s.AvgQueueLen)
	}
	fmt.Fprintf(w, "Bottleneck station: %s\n", k.Bottleneck)
	fmt.Fprintln(w, "================================================")
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
