package engine

import "time"

// Pacing declares the minimum simulated-latency delay after each milestone.
// The delays are pure scheduling pauses, not I/O waits; zero values run the
// pipeline synchronously, which is what tests use.
type Pacing struct {
	Read       time.Duration
	Extract    time.Duration
	Found      time.Duration
	Categorize time.Duration
	Total      time.Duration
	Commit     time.Duration
	Compose    time.Duration
	Send       time.Duration
	Deliver    time.Duration
}

// DemoPacing is the pacing of the live demo dashboard.
func DemoPacing() Pacing {
	return Pacing{
		Read:       1500 * time.Millisecond,
		Extract:    1500 * time.Millisecond,
		Found:      1000 * time.Millisecond,
		Categorize: 1500 * time.Millisecond,
		Total:      1000 * time.Millisecond,
		Commit:     800 * time.Millisecond,
		Compose:    1500 * time.Millisecond,
		Send:       1000 * time.Millisecond,
		Deliver:    500 * time.Millisecond,
	}
}

// InstantPacing runs every stage without delay.
func InstantPacing() Pacing {
	return Pacing{}
}
