package sim

// Station is the mutable runtime state of one station.
//
// Down is written only by the station's BreakdownProcess. BusyTime,
// BusyTimeAfterWarmup and QueueSamples are written only by station visits.
// Both happen strictly between suspension points, so no locking is needed.
type Station struct {
	Config   StationConfig
	Resource *Resource
	Down     bool

	// BusyTime is the actively-processing time; downtime pauses are excluded.
	BusyTime float64
	// BusyTimeAfterWarmup is the share of BusyTime accrued at or after warm-up.
	BusyTimeAfterWarmup float64
	// QueueSamples holds the wait-queue length seen by each arriving part.
	QueueSamples []int

	Failures  int     // UP→DOWN transitions
	DownTime  float64 // closed DOWN intervals, see CloseDowntime
	downSince float64
}

// NewStation creates the runtime state for a station, initially UP and idle.
func NewStation(cfg StationConfig) *Station {
	return &Station{
		Config:       cfg,
		Resource:     NewResource(cfg.Name, cfg.Capacity),
		QueueSamples: make([]int, 0),
	}
}

// Name returns the configured station name.
func (st *Station) Name() string { return st.Config.Name }

func (st *Station) setDown(now float64, down bool) {
	if down == st.Down {
		return
	}
	if down {
		st.Failures++
		st.downSince = now
	} else {
		st.DownTime += now - st.downSince
	}
	st.Down = down
}

// CloseDowntime folds an open DOWN interval into DownTime at the horizon.
func (st *Station) CloseDowntime(horizon float64) {
	if st.Down {
		st.DownTime += horizon - st.downSince
		st.downSince = horizon
	}
}

// creditBusy adds one completed processing increment [start, end].
func (st *Station) creditBusy(start, end, warmup float64) {
	st.BusyTime += end - start
	if end > warmup {
		st.BusyTimeAfterWarmup += end - max(start, warmup)
	}
}
