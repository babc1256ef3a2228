package anomaly

// Status is the discrete classification of a reading set
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// String implements the Stringer interface
func (s Status) String() string {
	return string(s)
}

// Predictor defines the core domain interface. Implementations are
// stateless after construction and safe for concurrent use.
type Predictor interface {
	// Predict classifies one set of temperature readings. A nil slice is
	// rejected with an invalid-input error; an empty slice is valid
	// degenerate input and yields a low-confidence fallback result.
	Predict(readings []float64) (*Result, error)

	// IsReady reports whether the predictor has finished loading its
	// configuration and can serve predictions
	IsReady() bool

	// Configuration returns a read-only snapshot of the active configuration
	Configuration() Config
}

// FeatureVector holds the statistics derived from one reading set.
// When ActiveSensors is zero the remaining fields carry the documented
// fallbacks (mean equals the reference temperature, all spreads zero).
type FeatureVector struct {
	MeanTemperature  float64
	StdDeviation     float64
	TemperatureRange float64
	MaxDeviation     float64
	ActiveSensors    int
}

// Result is the outcome of a single prediction. Confidence is a percentage
// clamped to [10, 100]; reported values are rounded to two decimal places
// while all threshold comparisons run on full precision.
type Result struct {
	Status          Status
	Confidence      float64
	MeanTemperature float64
	Features        FeatureVector
	InputSensors    int
}
