package object

import "time"

// TrailPoint is one recorded ship position.
type TrailPoint struct {
	X, Y float64
	At   time.Duration // Game clock when recorded
}

// Contrail is the ship's recent position history, oldest first.
type Contrail struct {
	Points   []TrailPoint
	Interval time.Duration // Minimum spacing between samples
	Lifespan time.Duration // Samples older than this are pruned

	last     time.Duration
	recorded bool
}

// Record appends a sample unless the previous one is younger than Interval.
func (c *Contrail) Record(x, y float64, now time.Duration) {
	if c.recorded && now-c.last < c.Interval {
		return
	}
	c.Points = append(c.Points, TrailPoint{X: x, Y: y, At: now})
	c.last = now
	c.recorded = true
}

// Prune drops samples older than Lifespan.
func (c *Contrail) Prune(now time.Duration) {
	drop := 0
	for drop < len(c.Points) && now-c.Points[drop].At > c.Lifespan {
		drop++
	}
	if drop == 0 {
		return
	}
	n := copy(c.Points, c.Points[drop:])
	c.Points = c.Points[:n]
}

// Reset forgets every sample.
func (c *Contrail) Reset() {
	c.Points = c.Points[:0]
	c.recorded = false
}
