package domain

// TimeSeriesPoint is one bin of the derivative series. Internal rate
// units are per-minute; presentation layers convert to per-hour.
type TimeSeriesPoint struct {
	BucketStartMs int64   `json:"bucketStartMs"`
	Count         int     `json:"count"`
	Exposure      float64 `json:"exposure"`
	Slope         float64 `json:"slope"`
	Accel         float64 `json:"accel"`
	ISOTime       string  `json:"isoTime"`
}

// SpikeInput is one article's contribution to the hourly spike series.
type SpikeInput struct {
	Time     string
	Value    float64
	Keywords []string
}

// LabeledBucket is one hour of the spike series. Label carries the
// dominant keyword of a detected local-maximum spike, else empty.
type LabeledBucket struct {
	HourStartISO string  `json:"time"`
	Value        float64 `json:"value"`
	Label        string  `json:"label"`
}
