package history

import (
	"context"
	"time"
)

// Recorder defines the core domain interface
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
	Close() error
}

// Repository defines the interface for prediction storage
type Repository interface {
	Record(entry *Entry) error
	Close() error
}

// Entry is one persisted prediction
type Entry struct {
	Timestamp     time.Time
	Status        string
	Confidence    float64
	MeanTemp      float64
	StdDeviation  float64
	TempRange     float64
	MaxDeviation  float64
	InputSensors  int
	ActiveSensors int
}
