package benchmarks

import (
	"sync"
	"testing"
	"time"

	"github.com/daniel-hutao/spinlock"

	"github.com/devchat-ai/gopool/gopool"
)

// noopTask measures pure scheduling overhead.
func noopTask() (int, error) { return 0, nil }

// ioTask simulates a short blocking operation.
func ioTask() (int, error) {
	time.Sleep(time.Millisecond)
	return 0, nil
}

func benchmarkSubmit(b *testing.B, task gopool.Task[int], opts ...gopool.Option[int]) {
	pool, err := gopool.NewPool[int](16, opts...)
	if err != nil {
		b.Fatalf("pool construction failed: %v", err)
	}
	defer pool.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(task)
	}
	pool.Wait()
}

func BenchmarkSubmit_Mutex(b *testing.B) {
	benchmarkSubmit(b, noopTask)
}

func BenchmarkSubmit_SpinLock(b *testing.B) {
	benchmarkSubmit(b, noopTask, gopool.WithLock[int](new(spinlock.SpinLock)))
}

func BenchmarkSubmit_IOBound_Mutex(b *testing.B) {
	benchmarkSubmit(b, ioTask)
}

func BenchmarkSubmit_IOBound_SpinLock(b *testing.B) {
	benchmarkSubmit(b, ioTask, gopool.WithLock[int](new(spinlock.SpinLock)))
}

func BenchmarkSubmit_Elastic(b *testing.B) {
	benchmarkSubmit(b, noopTask,
		gopool.WithMinWorkers[int](2),
		gopool.WithScaleInterval[int](10*time.Millisecond),
	)
}

func BenchmarkSubmit_Parallel(b *testing.B) {
	pool, err := gopool.NewPool[int](16)
	if err != nil {
		b.Fatalf("pool construction failed: %v", err)
	}
	defer pool.Release()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pool.Submit(noopTask)
		}
	})
	pool.Wait()
}

// BenchmarkRawGoroutines is the baseline the pool competes against.
func BenchmarkRawGoroutines(b *testing.B) {
	var wg sync.WaitGroup
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = noopTask()
		}()
	}
	wg.Wait()
}
