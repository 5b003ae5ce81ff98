package telemetry

// Sample is the population state handed to Flush at the end of a window.
type Sample struct {
	Population  int
	Sighted     int
	Species     int
	Food        int
	Sizes       []float64 // Cells per organism
	Energies    []float64 // Banked energy per organism
	BestSpecies string
	BestSuccess int
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	runID       string
	windowTicks int

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	births       int
	ageDeaths    int
	hungerDeaths int
	killDeaths   int
	reseeds      int

	lifetimes *LifetimeTracker
}

// NewCollector creates a stats collector that flushes every windowTicks ticks.
func NewCollector(runID string, windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		runID:       runID,
		windowTicks: windowTicks,
		lifetimes:   NewLifetimeTracker(),
	}
}

// RecordBirths records n children added to the population.
func (c *Collector) RecordBirths(n int) {
	c.births += n
}

// RecordDeaths records deaths by category.
func (c *Collector) RecordDeaths(age, hunger, killed int) {
	c.ageDeaths += age
	c.hungerDeaths += hunger
	c.killDeaths += killed
}

// RecordLifetime records the lifetime of an organism that died.
func (c *Collector) RecordLifetime(s LifetimeStats) {
	c.lifetimes.Record(s)
}

// RecordReseed records an extinction followed by a reseed.
func (c *Collector) RecordReseed() {
	c.reseeds++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, s Sample) WindowStats {
	size := Summarize(s.Sizes)
	energy := Summarize(s.Energies)
	lifespan := Summarize(c.lifetimes.Ages())

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population: s.Population,
		Sighted:    s.Sighted,
		Species:    s.Species,
		Food:       s.Food,

		Births:       c.births,
		AgeDeaths:    c.ageDeaths,
		HungerDeaths: c.hungerDeaths,
		KillDeaths:   c.killDeaths,
		Reseeds:      c.reseeds,

		SizeMean: size.Mean,
		SizeStd:  size.Std,
		SizeP10:  size.P10,
		SizeP50:  size.P50,
		SizeP90:  size.P90,

		EnergyMean: energy.Mean,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,

		LifespanMean:     lifespan.Mean,
		LifespanP50:      lifespan.P50,
		LifespanP90:      lifespan.P90,
		ChildrenPerDeath: c.lifetimes.MeanChildren(),

		BestSuccess: s.BestSuccess,
		BestSpecies: s.BestSpecies,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.ageDeaths = 0
	c.hungerDeaths = 0
	c.killDeaths = 0
	c.reseeds = 0
	c.lifetimes.Reset()

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
