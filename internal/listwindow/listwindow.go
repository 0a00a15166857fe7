// Package listwindow computes which rows of a large, partially-loaded
// transaction list intersect a scroll viewport, and when the next page
// should be fetched. Row heights vary (a payee sub-line makes a row taller),
// and rows past the loaded prefix are placeholders with an estimated height
// until their data arrives.
package listwindow

import (
	"fmt"
	"sort"
	"sync"
)

// Config tunes the height model and the load-more trigger.
type Config struct {
	// BaseRowHeight is the pixel height of a plain row and the estimate
	// used for rows that have not been measured yet.
	BaseRowHeight int

	// SubLineHeight is added to rows carrying a payee sub-line.
	SubLineHeight int

	// Overscan renders this many extra rows above and below the viewport
	// so small scrolls do not flash placeholders.
	Overscan int

	// LoadThreshold triggers a load when the window's last row comes within
	// this many rows of the unloaded tail.
	LoadThreshold int
}

// DefaultConfig matches the transaction table's row metrics.
func DefaultConfig() Config {
	return Config{
		BaseRowHeight: 48,
		SubLineHeight: 20,
		Overscan:      5,
		LoadThreshold: 10,
	}
}

// Window is the render plan for one scroll position.
type Window struct {
	// First and Last are the inclusive row indices to render. Last may point
	// past the loaded prefix; those rows render as placeholders.
	First int
	Last  int

	// TopOffset is the pixel offset of First from the top of the list, used
	// to position the rendered slice inside the full-height scroll body.
	TopOffset int

	// TotalHeight is the estimated pixel height of the whole list,
	// placeholders included, so the scrollbar stays stable.
	TotalHeight int

	// NeedLoad is set when the caller should fetch the next page. It is
	// never set while a load is already in flight.
	NeedLoad bool
}

// Windower tracks row heights and load state for one list instance.
type Windower struct {
	mu  sync.Mutex
	cfg Config

	total  int // total row count reported by the backend
	loaded int // rows with data (measured heights)

	// prefix[i] is the pixel offset of row i; prefix[loaded] is the height
	// of the measured region. Rows >= loaded use BaseRowHeight estimates.
	prefix []int

	loading bool
}

// New creates a Windower for a list with total rows, none loaded yet.
func New(cfg Config, total int) *Windower {
	if cfg.BaseRowHeight <= 0 {
		cfg = DefaultConfig()
	}
	if total < 0 {
		total = 0
	}
	return &Windower{cfg: cfg, total: total, prefix: []int{0}}
}

// Total returns the backend-reported row count.
func (w *Windower) Total() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total
}

// Loaded returns how many rows have data.
func (w *Windower) Loaded() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// SetTotal updates the backend-reported count (it can change between pages
// when rows are created or deleted elsewhere). Shrinking below the loaded
// prefix discards the excess measurements.
func (w *Windower) SetTotal(total int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if total < 0 {
		total = 0
	}
	w.total = total
	if w.loaded > total {
		w.loaded = total
		w.prefix = w.prefix[:total+1]
	}
}

// Append records a freshly loaded page. hasSubLine[i] tells whether the i-th
// appended row carries a payee sub-line and therefore the taller height.
func (w *Windower) Append(hasSubLine []bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sub := range hasSubLine {
		if w.loaded >= w.total {
			break
		}
		h := w.cfg.BaseRowHeight
		if sub {
			h += w.cfg.SubLineHeight
		}
		w.prefix = append(w.prefix, w.prefix[w.loaded]+h)
		w.loaded++
	}
}

// Remeasure corrects the height of an already loaded row, shifting every
// later offset by the delta so earlier offsets stay intact. This covers the
// data-arrives-late case where a row first rendered as a placeholder at the
// estimated height.
func (w *Windower) Remeasure(index int, hasSubLine bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= w.loaded {
		return fmt.Errorf("remeasure index %d outside loaded prefix [0, %d)", index, w.loaded)
	}
	h := w.cfg.BaseRowHeight
	if hasSubLine {
		h += w.cfg.SubLineHeight
	}
	delta := h - (w.prefix[index+1] - w.prefix[index])
	if delta == 0 {
		return nil
	}
	for i := index + 1; i <= w.loaded; i++ {
		w.prefix[i] += delta
	}
	return nil
}

// Window computes the render plan for the given scroll offset and viewport
// height, both in pixels.
func (w *Windower) Window(scrollTop, viewportHeight int) Window {
	w.mu.Lock()
	defer w.mu.Unlock()

	if scrollTop < 0 {
		scrollTop = 0
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}

	totalHeight := w.heightLocked()
	if w.total == 0 {
		return Window{First: 0, Last: -1, TotalHeight: 0}
	}

	first := w.indexAtLocked(scrollTop)
	last := w.indexAtLocked(scrollTop + viewportHeight)

	first -= w.cfg.Overscan
	last += w.cfg.Overscan
	if first < 0 {
		first = 0
	}
	if last > w.total-1 {
		last = w.total - 1
	}

	win := Window{
		First:       first,
		Last:        last,
		TopOffset:   w.offsetOfLocked(first),
		TotalHeight: totalHeight,
	}

	if !w.loading && w.loaded < w.total && last >= w.loaded-w.cfg.LoadThreshold {
		win.NeedLoad = true
	}
	return win
}

// BeginLoad marks a load in flight. It returns false when a load is already
// running, so concurrent scroll events cannot issue duplicate fetches.
func (w *Windower) BeginLoad() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loading {
		return false
	}
	w.loading = true
	return true
}

// FinishLoad clears the in-flight flag. Call it whether the fetch succeeded
// or failed; on success, Append the page first.
func (w *Windower) FinishLoad() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
}

// heightLocked is the estimated total pixel height: measured prefix plus
// base-height estimates for unloaded rows.
func (w *Windower) heightLocked() int {
	return w.prefix[w.loaded] + (w.total-w.loaded)*w.cfg.BaseRowHeight
}

// indexAtLocked maps a pixel offset to the row covering it.
func (w *Windower) indexAtLocked(y int) int {
	measured := w.prefix[w.loaded]
	if y < measured {
		// First measured row whose bottom edge is past y.
		return sort.Search(w.loaded, func(i int) bool { return w.prefix[i+1] > y })
	}
	idx := w.loaded + (y-measured)/w.cfg.BaseRowHeight
	if idx > w.total-1 {
		idx = w.total - 1
	}
	return idx
}

// offsetOfLocked is the pixel offset of a row's top edge.
func (w *Windower) offsetOfLocked(index int) int {
	if index <= w.loaded {
		return w.prefix[index]
	}
	return w.prefix[w.loaded] + (index-w.loaded)*w.cfg.BaseRowHeight
}
