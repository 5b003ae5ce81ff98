package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkNewChampion      BookmarkType = "new_champion"
	BookmarkSizeBreakthrough BookmarkType = "size_breakthrough"
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	RunID       string       `csv:"run_id"`
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int    // peak population since the last crash
	lastChampion       string // best species at the previous window
	stableWindowsCount int    // consecutive windows with a steady population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkNewChampion(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkSizeBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStablePopulation(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}

	for i := range bookmarks {
		bookmarks[i].RunID = stats.RunID
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Reseeds == 0 {
		return nil
	}
	bd.recentPeak = 0
	bd.stableWindowsCount = 0
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population went extinct %d time(s) and was reseeded", stats.Reseeds),
	}
}

func (bd *BookmarkDetector) checkNewChampion(stats WindowStats) *Bookmark {
	if stats.BestSpecies == "" || stats.BestSpecies == bd.lastChampion {
		return nil
	}
	old := bd.lastChampion
	bd.lastChampion = stats.BestSpecies
	if old == "" {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkNewChampion,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("New most successful anatomy with %d offspring: %s", stats.BestSuccess, stats.BestSpecies),
	}
}

func (bd *BookmarkDetector) checkSizeBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	sizes := make([]float64, len(history))
	for i, h := range history {
		sizes[i] = h.SizeMean
	}
	avg := stat.Mean(sizes, nil)
	if avg == 0 {
		return nil
	}

	if stats.SizeMean > avg*1.5 && stats.SizeMean >= 5 {
		return &Bookmark{
			Type:        BookmarkSizeBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean size %.1f is %.1fx average (%.1f)", stats.SizeMean, stats.SizeMean/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Population)/float64(bd.recentPeak)
	if drop > 0.5 && stats.Population < bd.recentPeak-20 {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStablePopulation(stats WindowStats) *Bookmark {
	if stats.Population < 20 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := make([]float64, 4)
	for i, h := range history[len(history)-4:] {
		recent[i] = float64(h.Population)
	}
	mean, variance := stat.PopMeanVariance(recent, nil)

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population steady around %.0f over 5+ windows", mean),
		}
	}
	return nil
}
