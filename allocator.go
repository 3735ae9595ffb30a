package vector

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

const maxInt = int(^uint(0) >> 1)

// Allocator is the global allocation strategy behind every RawMemory.
// Regions come from the Go heap; the allocator only accounts for them,
// enforces the optional byte limit and logs. Safe for concurrent use.
type Allocator struct {
	mu     sync.Mutex
	limit  int64
	logger log.Logger
	stats  allocatorStats
}

type allocatorStats struct {
	bytesInUse  int64
	peakBytes   int64
	liveBuffers int64
	allocs      uint64
	releases    uint64
	failures    uint64
}

var defaultAllocator atomic.Pointer[Allocator]

func init() {
	defaultAllocator.Store(NewAllocator(DefaultConfig(), nil))
}

// NewAllocator creates an Allocator from cfg. A nil logger discards output.
func NewAllocator(cfg Config, logger log.Logger) *Allocator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Allocator{
		limit:  int64(cfg.MaxBytes.Bytes()),
		logger: cfg.Filter(logger),
	}
}

// DefaultAllocator returns the allocator used by new buffers.
func DefaultAllocator() *Allocator {
	return defaultAllocator.Load()
}

// SetDefaultAllocator installs a as the allocator for buffers created from
// now on and returns the previous one. Buffers remember the allocator they
// came from, so existing vectors keep returning bytes to it.
func SetDefaultAllocator(a *Allocator) *Allocator {
	if a == nil {
		panic("vector: nil allocator")
	}
	return defaultAllocator.Swap(a)
}

// Limit returns the configured byte limit, 0 meaning unlimited.
func (a *Allocator) Limit() int64 {
	return a.limit
}

// reserve accounts for n elements of elemSize bytes. It panics when the
// request overflows or exceeds the limit; no state changes in that case.
func (a *Allocator) reserve(n int, elemSize uintptr) int64 {
	if n < 0 {
		a.fail()
		panic(errors.Wrapf(ErrCapacityOverflow, "negative capacity %d", n))
	}
	if elemSize != 0 && uintptr(n) > uintptr(maxInt)/elemSize {
		a.fail()
		panic(errors.Wrapf(ErrCapacityOverflow, "%d elements of %d bytes", n, elemSize))
	}
	size := int64(uintptr(n) * elemSize)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.limit > 0 && a.stats.bytesInUse+size > a.limit {
		a.stats.failures++
		level.Warn(a.logger).Log("msg", "allocation rejected", "bytes", size, "in_use", a.stats.bytesInUse, "limit", a.limit)
		panic(errors.Wrapf(ErrOutOfMemory, "requested %s with %s of %s in use",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(a.stats.bytesInUse)), humanize.IBytes(uint64(a.limit))))
	}
	a.stats.bytesInUse += size
	if a.stats.bytesInUse > a.stats.peakBytes {
		a.stats.peakBytes = a.stats.bytesInUse
	}
	a.stats.liveBuffers++
	a.stats.allocs++
	level.Debug(a.logger).Log("msg", "allocated buffer", "elements", n, "bytes", size, "in_use", a.stats.bytesInUse)
	return size
}

// release returns size bytes previously handed out by reserve.
func (a *Allocator) release(size int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.bytesInUse -= size
	a.stats.liveBuffers--
	a.stats.releases++
	level.Debug(a.logger).Log("msg", "released buffer", "bytes", size, "in_use", a.stats.bytesInUse)
}

func (a *Allocator) fail() {
	a.mu.Lock()
	a.stats.failures++
	a.mu.Unlock()
}

// allocate returns n zeroed slots of T accounted against a, or nil for n == 0.
// Regions of zero-sized elements occupy no bytes and are not accounted.
func allocate[T any](a *Allocator, n int) ([]T, int64) {
	if n == 0 {
		return nil, 0
	}
	var zero T
	elemSize := unsafe.Sizeof(zero)
	if elemSize == 0 && n > 0 {
		return make([]T, n), 0
	}
	size := a.reserve(n, elemSize)
	return make([]T, n), size
}
