package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/geket/lamella/internal/backend"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/engine"
	"github.com/geket/lamella/internal/ipc"
	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

// benchFixture is a replayable workload: a number of pre-seeded windows and
// a stream of steps to time. Each step is either a display event or a
// command line.
type benchFixture struct {
	Name        string
	SeedWindows int
	Steps       []benchStep
}

type benchStep struct {
	Command string
	Event   wm.Event
	Delay   time.Duration
}

func (s benchStep) kind() string {
	if s.Command != "" {
		word, _, _ := strings.Cut(s.Command, " ")
		return "exec:" + word
	}
	if s.Event != nil {
		return s.Event.Kind()
	}
	return "noop"
}

type benchLatencyStats struct {
	Min    float64 `json:"minMs"`
	Mean   float64 `json:"meanMs"`
	Median float64 `json:"medianMs"`
	P95    float64 `json:"p95Ms"`
	Max    float64 `json:"maxMs"`
}

type benchAllocationStats struct {
	Total              uint64  `json:"totalAllocations"`
	PerStep            float64 `json:"allocationsPerStep"`
	BytesTotal         uint64  `json:"bytesTotal"`
	BytesPerStep       float64 `json:"bytesPerStep"`
	MiBTotal           float64 `json:"miBTotal"`
	MiBPerStep         float64 `json:"miBPerStep"`
	HeapAllocStart     uint64  `json:"heapAllocStartBytes"`
	HeapAllocEnd       uint64  `json:"heapAllocEndBytes"`
	HeapAllocDelta     int64   `json:"heapAllocDeltaBytes"`
	HeapAllocPerStep   float64 `json:"heapAllocDeltaPerStep"`
	HeapObjectsStart   uint64  `json:"heapObjectsStart"`
	HeapObjectsEnd     uint64  `json:"heapObjectsEnd"`
	HeapObjectsDelta   int64   `json:"heapObjectsDelta"`
	HeapObjectsPerStep float64 `json:"heapObjectsPerStep"`
}

type benchActionStats struct {
	Total        int     `json:"total"`
	PerIteration float64 `json:"perIteration"`
	PerStep      float64 `json:"perStep"`
}

type benchSummary struct {
	Fixture           string               `json:"fixture"`
	Iterations        int                  `json:"iterations"`
	StepsPerIteration int                  `json:"stepsPerIteration"`
	TotalSteps        int                  `json:"totalSteps"`
	WarmupIterations  int                  `json:"warmupIterations"`
	Actions           benchActionStats     `json:"actions"`
	Latency           benchLatencyStats    `json:"latency"`
	IterationDuration benchLatencyStats    `json:"iterationDuration"`
	Allocations       benchAllocationStats `json:"allocations"`
	TotalDurationMs   float64              `json:"totalDurationMs"`
	StepsPerSecond    float64              `json:"stepsPerSecond"`
}

type benchReport struct {
	Summary     benchSummary     `json:"summary"`
	DurationsMs []float64        `json:"durationsMs"`
	Iterations  []benchIteration `json:"iterations,omitempty"`
}

type benchIteration struct {
	Index      int     `json:"index"`
	DurationMs float64 `json:"durationMs"`
	Actions    int     `json:"actions"`
	Steps      int     `json:"steps"`
}

type benchStepTrace struct {
	Iteration  int     `json:"iteration"`
	StepIndex  int     `json:"stepIndex"`
	Kind       string  `json:"kind"`
	DurationMs float64 `json:"durationMs"`
	Actions    int     `json:"actions"`
}

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (built-in defaults when empty)")
	fixturePath := flag.String("fixture", "", "path to replay fixture (JSON fixture or step log)")
	iterations := flag.Int("iterations", 10, "number of times to replay the fixture")
	warmup := flag.Int("warmup", 0, "number of warm-up iterations to run before timing")
	cpuProfile := flag.String("cpu-profile", "", "write CPU profile to file")
	memProfile := flag.String("mem-profile", "", "write heap profile to file")
	logLevel := flag.String("log-level", "warn", "log level (trace|debug|info|warn|error)")
	respectDelays := flag.Bool("respect-delays", false, "sleep for step delays declared in the fixture")
	outputPath := flag.String("output", "-", "write JSON report to file ('-' for stdout)")
	humanSummary := flag.Bool("human", false, "print a tabular summary alongside the JSON output")
	stepTracePath := flag.String("step-trace", "", "write per-step timings to file (JSON array, '-' for stdout)")
	flag.Parse()

	if *iterations <= 0 {
		fmt.Fprintln(os.Stderr, "iterations must be positive")
		os.Exit(1)
	}
	if *warmup < 0 {
		fmt.Fprintln(os.Stderr, "warmup must be zero or positive")
		os.Exit(1)
	}

	logger := util.NewLogger(util.ParseLogLevel(*logLevel))

	traceEnabled := strings.TrimSpace(*stepTracePath) != ""

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			exitErr(fmt.Errorf("load config: %w", err))
		}
		cfg = *loaded
	}

	fixture := defaultFixture()
	if *fixturePath != "" {
		loaded, err := loadFixture(*fixturePath, fixture)
		if err != nil {
			exitErr(fmt.Errorf("load fixture: %w", err))
		}
		fixture = loaded
	}

	if len(fixture.Steps) == 0 {
		exitErr(errors.New("fixture contains no steps"))
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			exitErr(fmt.Errorf("create cpu profile: %w", err))
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			exitErr(fmt.Errorf("start cpu profile: %w", err))
		}
		defer pprof.StopCPUProfile()
	}

	for i := 0; i < *warmup; i++ {
		if _, _, _, _, err := replayIteration(fixture, cfg, logger, *respectDelays, i+1, false, false); err != nil {
			exitErr(fmt.Errorf("warmup iteration %d: %w", i+1, err))
		}
	}

	runtime.GC()
	var startMem runtime.MemStats
	runtime.ReadMemStats(&startMem)

	stepsPerIteration := len(fixture.Steps)
	durations := make([]time.Duration, 0, stepsPerIteration*(*iterations))
	iterationDurations := make([]time.Duration, 0, *iterations)
	iterationActions := make([]int, 0, *iterations)
	totalActions := 0
	var stepTraces []benchStepTrace
	if traceEnabled {
		stepTraces = make([]benchStepTrace, 0, stepsPerIteration*(*iterations))
	}

	for i := 0; i < *iterations; i++ {
		iterationDuration, actionCount, stepDurations, traces, err := replayIteration(fixture, cfg, logger, *respectDelays, i+1, true, traceEnabled)
		if err != nil {
			exitErr(fmt.Errorf("iteration %d: %w", i+1, err))
		}
		iterationDurations = append(iterationDurations, iterationDuration)
		iterationActions = append(iterationActions, actionCount)
		totalActions += actionCount
		durations = append(durations, stepDurations...)
		if traceEnabled {
			stepTraces = append(stepTraces, traces...)
		}
	}

	runtime.GC()
	var endMem runtime.MemStats
	runtime.ReadMemStats(&endMem)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			exitErr(fmt.Errorf("create mem profile: %w", err))
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			exitErr(fmt.Errorf("write heap profile: %w", err))
		}
	}

	report := buildReport(fixture, *iterations, *warmup, durations, iterationDurations, iterationActions, totalActions, startMem, endMem)
	if err := writeReport(report, *outputPath); err != nil {
		exitErr(fmt.Errorf("encode report: %w", err))
	}

	if err := writeStepTrace(stepTraces, *stepTracePath); err != nil {
		exitErr(fmt.Errorf("write step trace: %w", err))
	}

	if *humanSummary {
		if err := printHumanSummary(report.Summary, os.Stdout); err != nil {
			exitErr(fmt.Errorf("print human summary: %w", err))
		}
	}
}

// replayIteration builds a fresh engine over a headless backend, seeds the
// fixture's windows and times every step.
func replayIteration(fixture benchFixture, cfg config.Config, logger *util.Logger, respectDelays bool, iteration int, capture bool, trace bool) (time.Duration, int, []time.Duration, []benchStepTrace, error) {
	iterationStart := time.Now()
	b := backend.NewHeadless(logger, true)
	defer b.Close()
	eng := engine.New(b, cfg, logger)

	eng.HandleEvent(wm.OutputAdded{ID: 1, Name: "BENCH-1", Geometry: wm.Geometry{Width: 2560, Height: 1440}})
	for i := 0; i < fixture.SeedWindows; i++ {
		eng.HandleEvent(wm.WindowMapped{
			ID:    wm.WindowID(i + 1),
			AppID: fmt.Sprintf("app-%d", i+1),
			Title: fmt.Sprintf("window %d", i+1),
		})
	}
	b.TakeActions()

	var stepDurations []time.Duration
	if capture {
		stepDurations = make([]time.Duration, 0, len(fixture.Steps))
	}
	var traces []benchStepTrace
	if capture && trace {
		traces = make([]benchStepTrace, 0, len(fixture.Steps))
	}

	totalActions := 0
	for idx, s := range fixture.Steps {
		if respectDelays && s.Delay > 0 {
			time.Sleep(s.Delay)
		}
		var stepActions int
		start := time.Now()
		if s.Command != "" {
			actions, err := eng.Exec(s.Command)
			if err != nil {
				return 0, 0, nil, nil, fmt.Errorf("exec %q: %w", s.Command, err)
			}
			stepActions = len(actions)
		} else {
			eng.HandleEvent(s.Event)
		}
		elapsed := time.Since(start)
		applied := len(b.TakeActions())
		if s.Command == "" {
			stepActions = applied
		}
		totalActions += stepActions
		if capture {
			stepDurations = append(stepDurations, elapsed)
			if trace {
				traces = append(traces, benchStepTrace{
					Iteration:  iteration,
					StepIndex:  idx + 1,
					Kind:       s.kind(),
					DurationMs: toMillis(elapsed),
					Actions:    stepActions,
				})
			}
		}
	}

	return time.Since(iterationStart), totalActions, stepDurations, traces, nil
}

func buildReport(fixture benchFixture, iterations int, warmup int, durations []time.Duration, iterationDurations []time.Duration, iterationActions []int, actions int, start, end runtime.MemStats) benchReport {
	totalSteps := len(fixture.Steps) * iterations
	latencyStats, totalStepDuration := buildLatencyStats(durations)
	iterationStats, _ := buildLatencyStats(iterationDurations)

	allocs := end.Mallocs - start.Mallocs
	allocsPerStep := float64(allocs)
	if totalSteps > 0 {
		allocsPerStep = float64(allocs) / float64(totalSteps)
	}
	bytesAllocated := end.TotalAlloc - start.TotalAlloc
	bytesPerStep := float64(bytesAllocated)
	if totalSteps > 0 {
		bytesPerStep = float64(bytesAllocated) / float64(totalSteps)
	}

	heapAllocDelta := int64(end.HeapAlloc) - int64(start.HeapAlloc)
	heapAllocPerStep := float64(heapAllocDelta)
	if totalSteps > 0 {
		heapAllocPerStep = float64(heapAllocDelta) / float64(totalSteps)
	}
	heapObjectsDelta := int64(end.HeapObjects) - int64(start.HeapObjects)
	heapObjectsPerStep := float64(heapObjectsDelta)
	if totalSteps > 0 {
		heapObjectsPerStep = float64(heapObjectsDelta) / float64(totalSteps)
	}

	durationsMs := make([]float64, len(durations))
	for i, d := range durations {
		durationsMs[i] = toMillis(d)
	}

	iterationsData := make([]benchIteration, 0, len(iterationDurations))
	for i, d := range iterationDurations {
		actionCount := 0
		if i < len(iterationActions) {
			actionCount = iterationActions[i]
		}
		iterationsData = append(iterationsData, benchIteration{
			Index:      i + 1,
			DurationMs: toMillis(d),
			Actions:    actionCount,
			Steps:      len(fixture.Steps),
		})
	}

	summary := benchSummary{
		Fixture:           fixture.Name,
		Iterations:        iterations,
		WarmupIterations:  warmup,
		StepsPerIteration: len(fixture.Steps),
		TotalSteps:        totalSteps,
		Actions: benchActionStats{
			Total:        actions,
			PerIteration: safeDivide(actions, iterations),
			PerStep:      safeDivide(actions, totalSteps),
		},
		Latency:           latencyStats,
		IterationDuration: iterationStats,
		Allocations: benchAllocationStats{
			Total:              allocs,
			PerStep:            allocsPerStep,
			BytesTotal:         bytesAllocated,
			BytesPerStep:       bytesPerStep,
			MiBTotal:           float64(bytesAllocated) / (1024 * 1024),
			MiBPerStep:         bytesPerStep / (1024 * 1024),
			HeapAllocStart:     start.HeapAlloc,
			HeapAllocEnd:       end.HeapAlloc,
			HeapAllocDelta:     heapAllocDelta,
			HeapAllocPerStep:   heapAllocPerStep,
			HeapObjectsStart:   start.HeapObjects,
			HeapObjectsEnd:     end.HeapObjects,
			HeapObjectsDelta:   heapObjectsDelta,
			HeapObjectsPerStep: heapObjectsPerStep,
		},
		TotalDurationMs: toMillis(totalStepDuration),
		StepsPerSecond:  stepsPerSecond(totalStepDuration, totalSteps),
	}

	return benchReport{Summary: summary, DurationsMs: durationsMs, Iterations: iterationsData}
}

func buildLatencyStats(durations []time.Duration) (benchLatencyStats, time.Duration) {
	stats := benchLatencyStats{}
	if len(durations) == 0 {
		return stats, 0
	}
	total := time.Duration(0)
	for _, d := range durations {
		total += d
	}
	mean := total / time.Duration(len(durations))
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	stats.Min = toMillis(sorted[0])
	stats.Mean = toMillis(mean)
	stats.Median = toMillis(percentile(sorted, 0.50))
	stats.P95 = toMillis(percentile(sorted, 0.95))
	stats.Max = toMillis(sorted[len(sorted)-1])
	return stats, total
}

func safeDivide(total int, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func writeReport(report benchReport, outputPath string) error {
	var (
		w   io.Writer
		out *os.File
		err error
	)
	switch strings.TrimSpace(outputPath) {
	case "", "-":
		w = os.Stdout
	default:
		dir := filepath.Dir(outputPath)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create report dir: %w", err)
			}
		}
		out, err = os.Create(outputPath)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func printHumanSummary(summary benchSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Fixture:\t%s\n", summary.Fixture); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Iterations:\t%d\n", summary.Iterations); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Warmup iterations:\t%d\n", summary.WarmupIterations); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Steps/iteration:\t%d\n", summary.StepsPerIteration); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Total steps:\t%d\n", summary.TotalSteps); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Actions:\t%d (%.2f / iter, %.2f / step)\n", summary.Actions.Total, summary.Actions.PerIteration, summary.Actions.PerStep); err != nil {
		return err
	}
	latency := summary.Latency
	if _, err := fmt.Fprintf(tw, "Latency (ms):\tmin %.2f | mean %.2f | median %.2f | p95 %.2f | max %.2f\n", latency.Min, latency.Mean, latency.Median, latency.P95, latency.Max); err != nil {
		return err
	}
	iterationLatency := summary.IterationDuration
	if _, err := fmt.Fprintf(tw, "Iteration duration (ms):\tmin %.2f | mean %.2f | median %.2f | p95 %.2f | max %.2f\n", iterationLatency.Min, iterationLatency.Mean, iterationLatency.Median, iterationLatency.P95, iterationLatency.Max); err != nil {
		return err
	}
	allocs := summary.Allocations
	if _, err := fmt.Fprintf(tw, "Allocations:\t%d total (%.2f / step)\n", allocs.Total, allocs.PerStep); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Bytes allocated:\t%s (%.2f / step)\n", formatBytesUnsigned(allocs.BytesTotal), allocs.BytesPerStep); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Heap delta:\t%s change, %d objects (%.2f / step)\n", formatBytesSigned(allocs.HeapAllocDelta), allocs.HeapObjectsDelta, allocs.HeapObjectsPerStep); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "Steps/sec:\t%.2f\n", summary.StepsPerSecond); err != nil {
		return err
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return nil
}

func writeStepTrace(steps []benchStepTrace, outputPath string) error {
	path := strings.TrimSpace(outputPath)
	if path == "" {
		return nil
	}

	var (
		w   io.Writer
		out *os.File
		err error
	)

	if path == "-" {
		w = os.Stdout
	} else {
		dir := filepath.Dir(path)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create step trace dir: %w", err)
			}
		}
		out, err = os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(steps)
}

func formatBytesUnsigned(bytes uint64) string {
	const miB = 1024 * 1024
	if bytes == 0 {
		return "0 B (0.00 MiB)"
	}
	return fmt.Sprintf("%d B (%.2f MiB)", bytes, float64(bytes)/float64(miB))
}

func formatBytesSigned(delta int64) string {
	if delta == 0 {
		return "0 B (0.00 MiB)"
	}
	sign := ""
	if delta < 0 {
		sign = "-"
		delta = -delta
	}
	return fmt.Sprintf("%s%s", sign, formatBytesUnsigned(uint64(delta)))
}

func stepsPerSecond(total time.Duration, steps int) float64 {
	if total <= 0 || steps == 0 {
		return 0
	}
	seconds := total.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(steps) / seconds
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(p*float64(len(sorted)-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// loadFixture reads a fixture from disk. A document starting with "{" is the
// JSON fixture format; anything else is a step log with one step per line.
// Unset fields fall back to the base fixture.
func loadFixture(path string, base benchFixture) (benchFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return benchFixture{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" || looksLikeJSON(data) {
		var payload struct {
			Name        string `json:"name"`
			SeedWindows int    `json:"seedWindows"`
			Steps       []struct {
				Exec  string          `json:"exec,omitempty"`
				Event json.RawMessage `json:"event,omitempty"`
				Delay string          `json:"delay,omitempty"`
			} `json:"steps"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return benchFixture{}, err
		}
		fixture := benchFixture{
			Name:        fallback(payload.Name, filepath.Base(path)),
			SeedWindows: payload.SeedWindows,
		}
		if fixture.SeedWindows == 0 {
			fixture.SeedWindows = base.SeedWindows
		}
		for i, raw := range payload.Steps {
			step := benchStep{Command: strings.TrimSpace(raw.Exec)}
			if len(raw.Event) > 0 {
				if step.Command != "" {
					return benchFixture{}, fmt.Errorf("step %d: exec and event are mutually exclusive", i+1)
				}
				ev, err := ipc.DecodeEvent(raw.Event)
				if err != nil {
					return benchFixture{}, fmt.Errorf("step %d: %w", i+1, err)
				}
				step.Event = ev
			}
			if step.Command == "" && step.Event == nil {
				return benchFixture{}, fmt.Errorf("step %d: needs exec or event", i+1)
			}
			if raw.Delay != "" {
				d, err := time.ParseDuration(raw.Delay)
				if err != nil {
					return benchFixture{}, fmt.Errorf("step %d: parse delay %q: %w", i+1, raw.Delay, err)
				}
				step.Delay = d
			}
			fixture.Steps = append(fixture.Steps, step)
		}
		if len(fixture.Steps) == 0 {
			if len(base.Steps) == 0 {
				return benchFixture{}, errors.New("fixture contains no steps")
			}
			fixture.Steps = append([]benchStep(nil), base.Steps...)
		}
		return fixture, nil
	}
	base.Name = fallback(base.Name, filepath.Base(path))
	steps, err := parseStepLog(string(data))
	if err != nil {
		return benchFixture{}, err
	}
	base.Steps = steps
	return base, nil
}

func looksLikeJSON(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}

// parseStepLog reads one step per line. Lines starting with "{" are event
// envelopes in the adapter wire format; every other non-comment line is a
// command.
func parseStepLog(input string) ([]benchStep, error) {
	lines := strings.Split(input, "\n")
	steps := make([]benchStep, 0, len(lines))
	for idx, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			ev, err := ipc.DecodeEvent([]byte(trimmed))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", idx+1, err)
			}
			steps = append(steps, benchStep{Event: ev})
			continue
		}
		steps = append(steps, benchStep{Command: trimmed})
	}
	if len(steps) == 0 {
		return nil, errors.New("step log produced no steps")
	}
	return steps, nil
}

// defaultFixture mixes tree churn, focus motion, workspace switches and
// resizes over eight seeded windows.
func defaultFixture() benchFixture {
	return benchFixture{
		Name:        "synthetic-editing",
		SeedWindows: 8,
		Steps: []benchStep{
			{Command: "focus left"},
			{Command: "focus right"},
			{Event: wm.WindowMapped{ID: 100, AppID: "term", Title: "notes"}},
			{Command: "split vertical"},
			{Event: wm.WindowMapped{ID: 101, AppID: "browser", Title: "docs"}},
			{Command: "floating toggle"},
			{Command: "move container to workspace 2"},
			{Command: "workspace 2"},
			{Command: "workspace 1"},
			{Command: "layout tabbed"},
			{Command: "layout default"},
			{Event: wm.WindowUnmapped{ID: 100}},
			{Command: "resize grow width 40"},
			{Command: "gaps outer set 6"},
			{Event: wm.WindowUnmapped{ID: 101}},
			{Command: "gaps outer set 4"},
		},
	}
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return def
}

func exitErr(err error) {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		fmt.Fprintf(os.Stderr, "error: %v\n", pathErr)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
