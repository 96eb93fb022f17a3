package model

import "time"

// Sample is one per-source measurement taken during a collect iteration.
type Sample struct {
	Timestamp time.Time
	Source    string
	Count     int64
	Fraction  float64
}
