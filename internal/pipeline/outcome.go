package pipeline

// Outcome is the per-frame analysis result. Outcomes drive counters and
// never abort the job; a frame that fails analysis degrades quality, not
// completion.
type Outcome int

const (
	OutcomeDetected Outcome = iota
	OutcomeNotDetected
	OutcomeDecodeFailed
	OutcomeEstimationFailed
)

// Counters accumulates per-frame outcomes across one job.
//
// Total is the frame count the validated metadata promised; Processed
// counts frames actually written to the output. For a healthy input the
// two match even when every frame fails estimation.
type Counters struct {
	Total     int
	Processed int
	Detected  int
	Failed    int
}

// Record applies one frame outcome to the counters. Write accounting is
// separate (see Counters.Processed) because decode failures skip the write
// entirely.
func (c *Counters) Record(o Outcome) {
	switch o {
	case OutcomeDetected:
		c.Detected++
	case OutcomeDecodeFailed, OutcomeEstimationFailed:
		c.Failed++
	}
}
