package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/pavanmanishd/vector"
)

// traceCommand pushes 1..count, then applies the optional insert, erase and
// resize steps before shrinking and destroying the vector.
type traceCommand struct {
	count    int
	insertAt int
	value    int
	eraseAt  int
	resize   int
	reserve  int
	logLevel string
	metrics  bool

	out    io.Writer
	logOut io.Writer
}

func addTraceCommand(app *kingpin.Application, stdout, stderr io.Writer) {
	cmd := &traceCommand{out: stdout, logOut: stderr}
	trace := app.Command("trace", "Replay vector operations and print each step.").Default().Action(cmd.run)
	trace.Flag("count", "Number of elements to push back.").Default("10").IntVar(&cmd.count)
	trace.Flag("reserve", "Capacity to reserve before pushing, 0 for none.").Default("0").IntVar(&cmd.reserve)
	trace.Flag("insert-at", "Position to insert --value at, -1 to skip.").Default("-1").IntVar(&cmd.insertAt)
	trace.Flag("value", "Value to insert.").Default("0").IntVar(&cmd.value)
	trace.Flag("erase-at", "Position to erase, -1 to skip.").Default("-1").IntVar(&cmd.eraseAt)
	trace.Flag("resize", "Length to resize to, -1 to skip.").Default("-1").IntVar(&cmd.resize)
	trace.Flag("log.level", "Allocator log level, overrides VECTOR_LOG_LEVEL.").EnumVar(&cmd.logLevel, "debug", "info", "warn", "error")
	trace.Flag("metrics", "Print allocator metrics in the Prometheus text format.").BoolVar(&cmd.metrics)
}

func (cmd *traceCommand) run(_ *kingpin.ParseContext) error {
	cfg, err := vector.ConfigFromEnv()
	if err != nil {
		return err
	}
	if cmd.logLevel != "" {
		cfg.LogLevel = cmd.logLevel
	}
	if cmd.count < 0 {
		return errors.Errorf("count must not be negative, got %d", cmd.count)
	}

	logger := log.With(log.NewLogfmtLogger(log.NewSyncWriter(cmd.logOut)), "ts", log.DefaultTimestampUTC)
	alloc := vector.NewAllocator(cfg, logger)
	prev := vector.SetDefaultAllocator(alloc)
	defer vector.SetDefaultAllocator(prev)

	v := vector.New[int]()
	defer v.Destroy()

	bold := color.New(color.Bold)
	bold.Fprintln(cmd.out, "Trace:")
	if limit := alloc.Limit(); limit > 0 {
		fmt.Fprintf(cmd.out, "\tlimit: %s\n", humanize.IBytes(uint64(limit)))
	}

	step := func(name string, fn func()) error {
		if err := guard(fn); err != nil {
			return errors.Wrap(err, name)
		}
		fmt.Fprintf(cmd.out, "\t%s: len=%d cap=%d in_use=%s %v\n",
			name, v.Len(), v.Cap(), humanize.IBytes(uint64(alloc.BytesInUse())), v)
		return nil
	}

	if cmd.reserve > 0 {
		if err := step(fmt.Sprintf("reserve(%d)", cmd.reserve), func() { v.Reserve(cmd.reserve) }); err != nil {
			return err
		}
	}
	for i := 1; i <= cmd.count; i++ {
		if err := step(fmt.Sprintf("push_back(%d)", i), func() { v.PushBack(i) }); err != nil {
			return err
		}
	}
	if cmd.insertAt >= 0 {
		if cmd.insertAt > v.Len() {
			return errors.Errorf("insert position %d out of range [0, %d]", cmd.insertAt, v.Len())
		}
		if err := step(fmt.Sprintf("insert(%d, %d)", cmd.insertAt, cmd.value), func() { v.Insert(cmd.insertAt, cmd.value) }); err != nil {
			return err
		}
	}
	if cmd.eraseAt >= 0 {
		if cmd.eraseAt >= v.Len() {
			return errors.Errorf("erase position %d out of range [0, %d)", cmd.eraseAt, v.Len())
		}
		if err := step(fmt.Sprintf("erase(%d)", cmd.eraseAt), func() { v.Erase(cmd.eraseAt) }); err != nil {
			return err
		}
	}
	if cmd.resize >= 0 {
		if err := step(fmt.Sprintf("resize(%d)", cmd.resize), func() { v.Resize(cmd.resize) }); err != nil {
			return err
		}
	}
	if err := step("shrink_to_fit", v.ShrinkToFit); err != nil {
		return err
	}
	if err := step("destroy", v.Destroy); err != nil {
		return err
	}

	m := alloc.Metrics()
	bold.Fprintln(cmd.out, "Allocator:")
	fmt.Fprintf(cmd.out, "\tallocations: %d, releases: %d, failures: %d, peak: %s\n",
		m.Allocations, m.Releases, m.Failures, humanize.IBytes(uint64(m.PeakBytes)))

	if cmd.metrics {
		return writeMetrics(cmd.out, alloc)
	}
	return nil
}

// guard turns an allocation panic into an error. Other panics propagate.
func guard(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && (errors.Is(e, vector.ErrOutOfMemory) || errors.Is(e, vector.ErrCapacityOverflow)) {
			err = e
			return
		}
		panic(r)
	}()
	fn()
	return nil
}

func writeMetrics(w io.Writer, alloc *vector.Allocator) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(vector.NewCollector(alloc)); err != nil {
		return errors.Wrap(err, "register collector")
	}
	mfs, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}
