package gopool

import (
	"errors"
	"testing"
	"time"
)

func TestPool_Timeout_SlowTaskReportsTimeout(t *testing.T) {
	errCh := make(chan error, 1)
	pool, err := NewPool[int](2,
		WithTimeout[int](50*time.Millisecond),
		WithErrorCallback[int](func(err error) { errCh <- err }),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Submit(func() (int, error) {
		time.Sleep(300 * time.Millisecond)
		return 1, nil
	})

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrTaskTimeout) {
			t.Errorf("expected ErrTaskTimeout, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout error never delivered")
	}

	pool.Wait()
	if got := pool.Stats().TimedOut; got != 1 {
		t.Errorf("expected 1 timed out attempt in stats, got %d", got)
	}
	pool.Release()
}

func TestPool_Timeout_FastTaskKeepsOwnOutcome(t *testing.T) {
	resCh := make(chan int, 1)
	errCh := make(chan error, 1)
	pool, err := NewPool[int](2,
		WithTimeout[int](200*time.Millisecond),
		WithResultCallback(func(n int) { resCh <- n }),
		WithErrorCallback[int](func(err error) { errCh <- err }),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Submit(func() (int, error) {
		return 7, nil
	})
	taskErr := errors.New("task's own error")
	pool.Submit(func() (int, error) {
		return 0, taskErr
	})
	pool.Wait()
	pool.Release()

	select {
	case n := <-resCh:
		if n != 7 {
			t.Errorf("expected result 7, got %d", n)
		}
	default:
		t.Error("result callback never fired for fast task")
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, taskErr) {
			t.Errorf("expected the task's own error, got %v", err)
		}
		if errors.Is(err, ErrTaskTimeout) {
			t.Error("fast failing task must not be reported as a timeout")
		}
	default:
		t.Error("error callback never fired for failing task")
	}
}

func TestPool_Timeout_WorkerFreedWhileTaskStillRunning(t *testing.T) {
	// The timeout stops waiting for the task, it does not cancel it. The
	// worker must become available again even though the abandoned body is
	// still sleeping.
	release := make(chan struct{})
	resCh := make(chan int, 1)

	pool, err := NewPool[int](1,
		WithTimeout[int](30*time.Millisecond),
		WithResultCallback(func(n int) { resCh <- n }),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Submit(func() (int, error) {
		<-release
		return 0, nil
	})
	pool.Submit(func() (int, error) {
		return 99, nil
	})

	select {
	case n := <-resCh:
		if n != 99 {
			t.Errorf("expected the second task's result, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("single worker never freed after a timed-out task")
	}

	close(release)
	pool.Wait()
	pool.Release()
}

func TestPool_Timeout_DisabledByDefault(t *testing.T) {
	resCh := make(chan int, 1)
	pool, err := NewPool[int](1, WithResultCallback(func(n int) { resCh <- n }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool.Submit(func() (int, error) {
		time.Sleep(80 * time.Millisecond)
		return 5, nil
	})
	pool.Wait()
	pool.Release()

	select {
	case n := <-resCh:
		if n != 5 {
			t.Errorf("expected 5, got %d", n)
		}
	default:
		t.Error("slow task should complete normally without a timeout configured")
	}
}
