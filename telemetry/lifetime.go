package telemetry

// LifetimeStats summarizes one organism at the moment it died.
type LifetimeStats struct {
	ID       int
	Age      int // Ticks lived
	Cells    int
	Meals    int
	Children int
	Killed   bool // Died touching a Killer cell
}

// LifetimeTracker accumulates the lifetimes of organisms that died within
// the current window.
type LifetimeTracker struct {
	records []LifetimeStats
}

// NewLifetimeTracker creates an empty tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{}
}

// Record adds one death.
func (lt *LifetimeTracker) Record(s LifetimeStats) {
	lt.records = append(lt.records, s)
}

// Count returns the number of recorded deaths.
func (lt *LifetimeTracker) Count() int {
	return len(lt.records)
}

// Ages returns the age of every recorded death.
func (lt *LifetimeTracker) Ages() []float64 {
	ages := make([]float64, len(lt.records))
	for i, s := range lt.records {
		ages[i] = float64(s.Age)
	}
	return ages
}

// MeanChildren returns the average number of children per death, or 0.
func (lt *LifetimeTracker) MeanChildren() float64 {
	if len(lt.records) == 0 {
		return 0
	}
	total := 0
	for _, s := range lt.records {
		total += s.Children
	}
	return float64(total) / float64(len(lt.records))
}

// Longest returns the record with the greatest age, and false when empty.
// Ties keep the first recorded.
func (lt *LifetimeTracker) Longest() (LifetimeStats, bool) {
	if len(lt.records) == 0 {
		return LifetimeStats{}, false
	}
	best := lt.records[0]
	for _, s := range lt.records[1:] {
		if s.Age > best.Age {
			best = s
		}
	}
	return best, true
}

// Reset drops all records, keeping the allocated capacity.
func (lt *LifetimeTracker) Reset() {
	lt.records = lt.records[:0]
}
