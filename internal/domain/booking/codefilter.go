package booking

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// CodeFilter is a bloom filter over issued reservation public codes. The
// public lookup endpoint is unauthenticated, so random probing would
// otherwise translate straight into database reads; the filter answers
// "definitely never issued" without touching the store. False positives just
// fall through to the database.
type CodeFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewCodeFilter sizes a filter for the expected number of codes at the given
// false positive rate.
func NewCodeFilter(capacity uint, fpr float64) *CodeFilter {
	return &CodeFilter{filter: bloom.NewWithEstimates(capacity, fpr)}
}

// Seed loads a batch of existing codes, typically the full table at startup.
func (f *CodeFilter) Seed(codes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range codes {
		f.filter.AddString(c)
	}
}

// Add records a freshly issued code.
func (f *CodeFilter) Add(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(code)
}

// MayContain reports whether the code might have been issued. A false result
// is definitive; a true result still needs a store lookup.
func (f *CodeFilter) MayContain(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(code)
}
