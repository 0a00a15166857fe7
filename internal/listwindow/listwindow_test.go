package listwindow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{BaseRowHeight: 40, SubLineHeight: 20, Overscan: 2, LoadThreshold: 5}
}

// repeat builds a sub-line mask of n rows, all plain or all tall.
func repeat(n int, sub bool) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = sub
	}
	return mask
}

func TestWindow_AllLoadedUniform(t *testing.T) {
	w := New(testConfig(), 100)
	w.Append(repeat(100, false))

	win := w.Window(400, 200) // rows 10..14 visible, overscan 2

	assert.Equal(t, 8, win.First)
	assert.Equal(t, 17, win.Last)
	assert.Equal(t, 8*40, win.TopOffset)
	assert.Equal(t, 100*40, win.TotalHeight)
	assert.False(t, win.NeedLoad, "fully loaded list never asks for more")
}

func TestWindow_VariableHeights(t *testing.T) {
	w := New(testConfig(), 4)
	w.Append([]bool{false, true, true, false}) // heights 40, 60, 60, 40

	win := w.Window(100, 10) // offset 100 falls inside row 1 (40..100 is row 1's span end)

	require.LessOrEqual(t, win.First, 1)
	require.GreaterOrEqual(t, win.Last, 2)
	assert.Equal(t, 200, win.TotalHeight)

	// Top offsets follow the measured heights, not the estimate.
	full := w.Window(0, 1000)
	assert.Equal(t, 0, full.TopOffset)
	assert.Equal(t, 0, full.First)
	assert.Equal(t, 3, full.Last)
}

func TestWindow_PlaceholderTail(t *testing.T) {
	w := New(testConfig(), 50)
	w.Append(repeat(10, true)) // 10 measured tall rows, 40 placeholders

	assert.Equal(t, 10*60+40*40, w.Window(0, 100).TotalHeight)

	// Scrolled deep into the unloaded tail: indices still resolve and the
	// window clamps to the last row.
	win := w.Window(10*60+39*40, 400)
	assert.Equal(t, 49, win.Last)
	assert.True(t, win.NeedLoad)
}

func TestWindow_LoadThreshold(t *testing.T) {
	w := New(testConfig(), 100)
	w.Append(repeat(50, false))

	// Window ends well before the tail: no load.
	early := w.Window(0, 200)
	assert.False(t, early.NeedLoad)

	// Window tail within threshold of row 50: load.
	near := w.Window(42*40, 200) // rows ~42..47 +overscan => last 49
	assert.True(t, near.NeedLoad)
}

func TestBeginLoad_DeduplicatesInFlight(t *testing.T) {
	w := New(testConfig(), 100)
	w.Append(repeat(20, false))

	require.True(t, w.BeginLoad())
	assert.False(t, w.BeginLoad(), "second load while in flight must be refused")

	// While loading, windows near the tail do not re-trigger.
	win := w.Window(18*40, 200)
	assert.False(t, win.NeedLoad)

	w.Append(repeat(20, false))
	w.FinishLoad()
	assert.True(t, w.BeginLoad(), "after FinishLoad a new load may start")
	w.FinishLoad()
}

func TestBeginLoad_ConcurrentCallers(t *testing.T) {
	w := New(testConfig(), 1000)
	w.Append(repeat(10, false))

	var wg sync.WaitGroup
	wins := make(chan bool, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- w.BeginLoad()
		}()
	}
	wg.Wait()
	close(wins)

	granted := 0
	for ok := range wins {
		if ok {
			granted++
		}
	}
	assert.Equal(t, 1, granted, "exactly one concurrent caller may load")
}

func TestRemeasure_AdjustsLaterOffsets(t *testing.T) {
	w := New(testConfig(), 3)
	w.Append([]bool{false, false, false})

	// Row 1 turns out to have a sub-line once its payee data arrives.
	require.NoError(t, w.Remeasure(1, true))

	win := w.Window(0, 1000)
	assert.Equal(t, 40+60+40, win.TotalHeight)

	// Row 2's offset moved by the delta, row 0's did not.
	assert.Equal(t, 0, w.offsetOf(0))
	assert.Equal(t, 100, w.offsetOf(2))

	assert.Error(t, w.Remeasure(7, false), "unloaded rows cannot be measured")
	assert.Error(t, w.Remeasure(-1, false))
}

func TestSetTotal_ShrinkDiscardsMeasurements(t *testing.T) {
	w := New(testConfig(), 20)
	w.Append(repeat(10, false))

	w.SetTotal(5)
	assert.Equal(t, 5, w.Loaded())
	assert.Equal(t, 5*40, w.Window(0, 100).TotalHeight)

	w.SetTotal(8)
	assert.Equal(t, 5, w.Loaded())
	assert.Equal(t, 8*40, w.Window(0, 100).TotalHeight)
}

func TestWindow_EmptyList(t *testing.T) {
	w := New(testConfig(), 0)
	win := w.Window(0, 500)
	assert.Equal(t, 0, win.TotalHeight)
	assert.Greater(t, win.First, win.Last, "empty window renders no rows")
	assert.False(t, win.NeedLoad)
}

// offsetOf exposes offsetOfLocked for assertions.
func (w *Windower) offsetOf(i int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.offsetOfLocked(i)
}
