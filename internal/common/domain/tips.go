package domain

// InstrumentTip is an externally generated recommendation for a tracked
// instrument.
type InstrumentTip struct {
	Recommendation string  `json:"recommendation"`
	RequiredReturn float64 `json:"required_return"`
}
