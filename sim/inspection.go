package sim

// Outcome is the disposition of one inspection.
type Outcome string

const (
	OutcomePass   Outcome = "PASS"
	OutcomeRework Outcome = "REWORK"
	OutcomeScrap  Outcome = "SCRAP"
)

// GuardBand is the tolerance outside [LSL, USL] within which a part is
// reworked rather than scrapped, in measurement units.
const GuardBand = 0.02

// InspectionRecord is one measurement, logged once per inspection attempt.
type InspectionRecord struct {
	PartID      int
	Time        float64 // birth time of the part
	Measurement float64
}

// Classify applies the three-tier policy:
//   - outside [LSL−GuardBand, USL+GuardBand] → SCRAP
//   - outside [LSL, USL]                     → REWORK
//   - otherwise                              → PASS
func Classify(measured, lsl, usl float64) Outcome {
	if measured < lsl-GuardBand || measured > usl+GuardBand {
		return OutcomeScrap
	}
	if measured < lsl || measured > usl {
		return OutcomeRework
	}
	return OutcomePass
}

// Measure draws a true value around the process target and adds independent
// gauge noise to it.
func Measure(src RandomSource, ic InspectionConfig) float64 {
	trueValue := SampleNormal(src, ic.TargetMean, ic.ProcessSigma)
	return SampleNormal(src, trueValue, ic.GaugeSigma)
}

// inspect measures part, logs the record and updates the outcome counters.
// It never suspends.
func (ctx *RunContext) inspect(part *Part) Outcome {
	ic := ctx.Config.Inspection
	measured := Measure(ctx.source(SubsystemInspection), ic)
	ctx.Inspections = append(ctx.Inspections, InspectionRecord{
		PartID:      part.ID,
		Time:        part.Birth,
		Measurement: measured,
	})

	outcome := Classify(measured, ic.LSL, ic.USL)
	switch outcome {
	case OutcomeScrap:
		ctx.Summary.Scrap++
	case OutcomeRework:
		ctx.Summary.Rework++
	case OutcomePass:
		ctx.Summary.Good++
	}
	return outcome
}
