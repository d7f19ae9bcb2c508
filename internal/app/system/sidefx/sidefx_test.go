package sidefx

import (
	"sync"
	"testing"
)

func TestSuspendRelease(t *testing.T) {
	if Suspended() {
		t.Fatalf("gate held before any Suspend")
	}

	release := Suspend()
	if !Suspended() {
		t.Errorf("gate not held after Suspend")
	}

	release()
	if Suspended() {
		t.Errorf("gate still held after release")
	}
}

func TestNestedSuspensionsCompose(t *testing.T) {
	outer := Suspend()
	inner := Suspend()

	inner()
	if !Suspended() {
		t.Errorf("outer suspension lost when inner released")
	}

	outer()
	if Suspended() {
		t.Errorf("gate still held after both released")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	release := Suspend()
	release()
	release()
	release()

	if Suspended() {
		t.Errorf("gate held after repeated release")
	}

	// The counter must not have gone negative: one fresh Suspend must
	// hold the gate again.
	again := Suspend()
	defer again()
	if !Suspended() {
		t.Errorf("gate not held after fresh Suspend; repeated releases corrupted the count")
	}
}

func TestConcurrentSuspensions(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := Suspend()
			defer release()
			if !Suspended() {
				t.Errorf("gate not held inside a suspension")
			}
		}()
	}
	wg.Wait()

	if Suspended() {
		t.Errorf("gate still held after all goroutines released")
	}
}
