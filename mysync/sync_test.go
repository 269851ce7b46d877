package mysync

import (
	"sync"
	"testing"
)

func TestMutexDo(t *testing.T) {
	n := 0
	mu := NewMutex(&n)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mu.Do(func(v *int) { *v++ })
			}
		}()
	}
	wg.Wait()

	v, u := mu.RLock()
	defer u.RUnlock()
	if *v != 800 {
		t.Errorf("counter=%d, want 800", *v)
	}
}
