package state

import (
	"sync"
	"testing"

	"github.com/fluentvoice/modelcache/internal/catalog"
)

func TestStore_SetAndCurrent(t *testing.T) {
	s := New()

	if _, ok := s.Current(); ok {
		t.Fatal("new store reports an installed artifact")
	}

	s.Set("/cache/ggml-base.bin", catalog.Base)

	active, ok := s.Current()
	if !ok {
		t.Fatal("Current() = not present after Set")
	}
	if active.Path != "/cache/ggml-base.bin" {
		t.Errorf("Path = %q, want %q", active.Path, "/cache/ggml-base.bin")
	}
	if active.Size != catalog.Base {
		t.Errorf("Size = %s, want base", active.Size)
	}
}

func TestStore_Clear(t *testing.T) {
	s := New()
	s.Set("/cache/ggml-tiny.bin", catalog.Tiny)
	s.Clear()

	active, ok := s.Current()
	if ok {
		t.Fatal("Current() reports present after Clear")
	}
	if active.Path != "" || active.Size != catalog.Size(0) {
		t.Errorf("cleared snapshot not zero: %+v", active)
	}
}

// TestStore_ConcurrentPairConsistency hammers the store from writers that
// each write a matching path/size pair and checks readers never observe a
// mixed pair. Run with -race.
func TestStore_ConcurrentPairConsistency(t *testing.T) {
	s := New()

	pairs := map[catalog.Size]string{
		catalog.Tiny:  "/cache/ggml-tiny.bin",
		catalog.Small: "/cache/ggml-small.bin",
		catalog.Large: "/cache/ggml-large-v3.bin",
	}

	var writers sync.WaitGroup
	for size, path := range pairs {
		writers.Add(1)
		go func(path string, size catalog.Size) {
			defer writers.Done()
			for i := 0; i < 1000; i++ {
				s.Set(path, size)
			}
		}(path, size)
	}

	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
			}
			active, ok := s.Current()
			if !ok {
				continue
			}
			if want := pairs[active.Size]; want != active.Path {
				t.Errorf("torn snapshot: size %s paired with path %q", active.Size, active.Path)
				return
			}
		}
	}()

	writers.Wait()
	close(stop)
	<-readerDone
}
