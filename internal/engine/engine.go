// Package engine tails every lane's log file in a run and merges the
// output into one bounded, time-ordered, queryable buffer.
package engine

import (
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/config"
	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
	"github.com/eungjin-cigro/cursorflow-sub004/internal/parser"
)

// Engine discovers lanes under one run directory, tracks a byte offset
// per lane log file, and ingests only newly appended bytes each poll.
// The poll cycle is the only mutator; queries are read-only and safe
// from any goroutine.
type Engine struct {
	runDir   string
	settings *config.Settings

	mu        sync.RWMutex
	lanes     []string
	colors    map[string]string
	offsets   map[string]int64
	ring      *entryRing
	nextID    int64
	newCount  int
	streaming bool
	stopCh    chan struct{}
	watcher   *pollWatcher

	pokeCh chan struct{}
	wg     sync.WaitGroup

	subMu sync.RWMutex
	subs  map[string]chan []models.BufferedLogEntry
}

// EngineState is the engine's queryable header state.
type EngineState struct {
	TotalEntries int
	Streaming    bool
	Lanes        []string
}

// New creates an engine for the given run directory. A nil settings
// uses defaults.
func New(runDir string, settings *config.Settings) *Engine {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Engine{
		runDir:   runDir,
		settings: settings,
		colors:   make(map[string]string),
		offsets:  make(map[string]int64),
		ring:     newEntryRing(settings.BufferCapacity),
		pokeCh:   make(chan struct{}, 1),
		subs:     make(map[string]chan []models.BufferedLogEntry),
	}
}

// StartStreaming polls once synchronously, then keeps polling on the
// configured interval until StopStreaming. Calling it while already
// streaming is a no-op.
func (e *Engine) StartStreaming() {
	e.mu.Lock()
	if e.streaming {
		e.mu.Unlock()
		return
	}
	e.streaming = true
	e.stopCh = make(chan struct{})
	stopCh := e.stopCh
	e.mu.Unlock()

	// Best-effort write-triggered wake-up; interval polling still covers
	// everything if the watcher can't be created.
	if w, err := newPollWatcher(config.LanesDir(e.runDir), e.poke); err == nil {
		e.mu.Lock()
		e.watcher = w
		e.mu.Unlock()
	}

	e.poll()

	e.wg.Add(1)
	go e.pollLoop(stopCh)
	log.Printf("[engine] streaming started for %s", e.runDir)
}

// StopStreaming stops the poll timer. An in-flight poll cycle completes
// normally. Calling it while not streaming is a no-op.
func (e *Engine) StopStreaming() {
	e.mu.Lock()
	if !e.streaming {
		e.mu.Unlock()
		return
	}
	e.streaming = false
	close(e.stopCh)
	watcher := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	if watcher != nil {
		watcher.stop()
	}
	e.wg.Wait()
	log.Printf("[engine] streaming stopped for %s", e.runDir)
}

func (e *Engine) pollLoop(stopCh chan struct{}) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.settings.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			e.poll()
		case <-e.pokeCh:
			e.poll()
		}
	}
}

// poke requests one extra poll; drops if one is already pending.
func (e *Engine) poke() {
	select {
	case e.pokeCh <- struct{}{}:
	default:
	}
}

// poll runs one ingestion cycle: rediscover lanes, read each lane's
// appended bytes, decode, and insert into the buffer in timestamp
// order. Per-lane I/O failures skip that lane for the cycle; the cycle
// itself never fails.
func (e *Engine) poll() {
	e.discoverLanes()

	now := time.Now()

	e.mu.RLock()
	lanes := append([]string(nil), e.lanes...)
	e.mu.RUnlock()

	var entries []models.BufferedLogEntry
	for _, lane := range lanes {
		entries = append(entries, e.readLaneDelta(lane, now)...)
	}
	if len(entries) == 0 {
		return
	}

	// Interleave lanes that produced output in the same cycle; stable
	// sort keeps same-lane entries in file order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	e.mu.Lock()
	for i := range entries {
		e.nextID++
		entries[i].ID = e.nextID
		e.ring.append(entries[i])
	}
	e.newCount += len(entries)
	e.mu.Unlock()

	e.notify(entries)
}

// discoverLanes rescans the run's lanes directory, picking up lanes
// that appeared after streaming started. Colors are assigned from the
// palette in discovery order and never change.
func (e *Engine) discoverLanes() {
	names := config.Lanes(e.runDir)

	var added []string
	e.mu.Lock()
	for _, name := range names {
		if _, known := e.colors[name]; known {
			continue
		}
		e.colors[name] = lanePalette[len(e.colors)%len(lanePalette)]
		e.lanes = append(e.lanes, name)
		added = append(added, name)
	}
	watcher := e.watcher
	e.mu.Unlock()

	if watcher != nil {
		for _, name := range added {
			watcher.add(config.LaneDir(e.runDir, name))
		}
	}
}

// readLaneDelta reads the bytes appended to a lane's log since the last
// poll and decodes them into entries. The size is taken from the open
// handle's stat, so the read never extends past the size it observed
// even while the producer keeps appending.
func (e *Engine) readLaneDelta(lane string, now time.Time) []models.BufferedLogEntry {
	path := config.LaneLogFile(config.LaneDir(e.runDir, lane))

	f, err := os.Open(path)
	if err != nil {
		// Not created yet or transiently locked: skip this cycle.
		return nil
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil
	}
	size := fi.Size()

	e.mu.RLock()
	offset := e.offsets[path]
	color := e.colors[lane]
	e.mu.RUnlock()

	if size < offset {
		// Smaller than the watermark means the file was recreated.
		offset = 0
	}
	if size == offset {
		return nil
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil
	}
	buf := make([]byte, size-offset)
	n, _ := io.ReadFull(f, buf)
	if n == 0 {
		return nil
	}
	buf = buf[:n]

	e.mu.Lock()
	e.offsets[path] = offset + int64(n)
	e.mu.Unlock()

	var entries []models.BufferedLogEntry
	for _, line := range strings.Split(string(buf), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		d := parser.DecodeReadableLine(line, now)
		entries = append(entries, models.BufferedLogEntry{
			Timestamp:  d.Timestamp,
			Lane:       lane,
			Level:      d.Level,
			Type:       d.Type,
			Message:    models.TruncateMessage(d.Message, e.settings.MaxMessageLength),
			Importance: models.InferImportance(d.Level, d.Type),
			Color:      color,
			RawLevel:   string(d.Level),
			RawType:    string(d.Type),
			RawMessage: d.Message,
		})
	}
	return entries
}

// Entries returns a filtered, paginated view of the buffer. Each call
// is internally consistent; consecutive calls may observe different
// buffers if a poll cycle ran in between.
func (e *Engine) Entries(opts QueryOptions) []models.BufferedLogEntry {
	e.mu.RLock()
	snapshot := e.ring.snapshot()
	e.mu.RUnlock()

	var filtered []models.BufferedLogEntry
	for _, entry := range snapshot {
		if opts.Filter.Matches(entry) {
			filtered = append(filtered, entry)
		}
	}
	return paginate(filtered, opts)
}

// State returns the engine's header state.
func (e *Engine) State() EngineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return EngineState{
		TotalEntries: e.ring.len(),
		Streaming:    e.streaming,
		Lanes:        append([]string(nil), e.lanes...),
	}
}

// Lanes returns the known lane names in discovery order.
func (e *Engine) Lanes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.lanes...)
}

// LaneColor returns the display color assigned to a lane, empty if the
// lane is unknown.
func (e *Engine) LaneColor(name string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.colors[name]
}

// AckNewEntries returns the number of entries ingested since the last
// acknowledgment and resets the counter.
func (e *Engine) AckNewEntries() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.newCount
	e.newCount = 0
	return n
}

// Clear resets all entries, offsets, and counters. Lane discovery and
// colors survive so a redraw after Clear stays stable.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ring.clear()
	e.offsets = make(map[string]int64)
	e.nextID = 0
	e.newCount = 0
}

// Subscribe registers a change listener. Each poll cycle that produced
// entries sends them on the channel; slow listeners miss batches rather
// than block ingestion.
func (e *Engine) Subscribe() (string, <-chan []models.BufferedLogEntry) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	id := uuid.NewString()
	ch := make(chan []models.BufferedLogEntry, 64)
	e.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a change listener and closes its channel.
func (e *Engine) Unsubscribe(id string) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	if ch, ok := e.subs[id]; ok {
		close(ch)
		delete(e.subs, id)
	}
}

func (e *Engine) notify(entries []models.BufferedLogEntry) {
	e.subMu.RLock()
	defer e.subMu.RUnlock()

	for _, ch := range e.subs {
		select {
		case ch <- entries:
		default:
			// Drop if the subscriber can't keep up.
		}
	}
}
