package dotter

import (
	"sync/atomic"
)

// ProgressBar reports progress through the engine's row loop. Display goes
// through Vprint, so a quiet run shows nothing.
type ProgressBar struct {
	Label   string
	Total   uint64
	Current uint64
}

// displayEvery throttles redraws; one per row would dominate small runs.
const displayEvery = 4096

func (bar *ProgressBar) Increment() {
	cur := atomic.AddUint64(&bar.Current, 1)
	if cur%displayEvery == 0 {
		bar.ClearAndDisplay()
	}
}

func (bar *ProgressBar) ClearAndDisplay() {
	if bar.Total == 0 {
		return
	}
	Vprint("\r")
	barWidth := uint64(60 - len(bar.Label))
	cur := atomic.LoadUint64(&bar.Current)
	if cur > bar.Total {
		cur = bar.Total
	}
	ticks := (barWidth * cur) / bar.Total
	Vprintf("%s [", bar.Label)
	for i := uint64(0); i < ticks; i++ {
		Vprint("=")
	}
	for i := uint64(0); i < (barWidth - ticks); i++ {
		Vprint(" ")
	}
	Vprint("] ")
	Vprintf("%d / %d", cur, bar.Total)
}

// Finish draws the completed bar and moves off the progress line. A run too
// short to have drawn the bar (fewer than displayEvery rows) prints nothing.
func (bar *ProgressBar) Finish() {
	if atomic.LoadUint64(&bar.Current) < displayEvery {
		return
	}
	bar.ClearAndDisplay()
	Vprint("\n")
}
