// internal/app/system/sidefx/sidefx.go

// Package sidefx gates the per-row side effects of a submission delete
// (mirror-document removal, counter decrements). They are correct for
// single-row deletes but O(N) for bulk ones, so a bulk mutation suspends
// them for its duration and applies one equivalent bulk update afterward.
//
// Suspension is process-global and reference-counted: nested or concurrent
// bulk operations compose, and the gate reopens only when the last guard
// is released.
package sidefx

import "sync"

var (
	mu        sync.Mutex
	suspended int
)

// Suspend increments the suspension count and returns a release function.
// Release is safe to call more than once; only the first call decrements.
// Callers must release on every exit path, typically via defer.
func Suspend() (release func()) {
	mu.Lock()
	suspended++
	mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			suspended--
			mu.Unlock()
		})
	}
}

// Suspended reports whether any bulk operation currently holds the gate.
func Suspended() bool {
	mu.Lock()
	defer mu.Unlock()
	return suspended > 0
}
