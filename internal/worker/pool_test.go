package worker

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPoolExecuteKeepsOrder(t *testing.T) {
	p := NewPool(3, func(_ context.Context, n int) (string, error) {
		if n < 0 {
			return "", errors.New("negative")
		}
		return strconv.Itoa(n * 2), nil
	})
	tasks := p.Execute(context.Background(), []int{1, 2, -1, 4})

	var got []string
	var failed int
	for _, task := range tasks {
		if task.Err != nil {
			failed++
			continue
		}
		got = append(got, task.Result)
	}
	if diff := cmp.Diff([]string{"2", "4", "8"}, got); diff != "" {
		t.Errorf("Execute() mismatch (-want +got):\n%s", diff)
	}
	if failed != 1 {
		t.Errorf("failed tasks = %d, want 1", failed)
	}
}

func TestPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPool(2, func(_ context.Context, n int) (int, error) { return n, nil })
	tasks := p.Execute(ctx, []int{1, 2, 3})
	if len(tasks) != 3 {
		t.Fatalf("Execute() returned %d tasks, want 3", len(tasks))
	}
	for _, task := range tasks {
		if task.Err == nil && task.Result != task.Input {
			t.Errorf("unexpected result %+v", task)
		}
		if task.Err != nil && !errors.Is(task.Err, context.Canceled) {
			t.Errorf("task error = %v, want %v", task.Err, context.Canceled)
		}
	}
}

func TestBatch(t *testing.T) {
	got := Batch([]int{1, 2, 3, 4, 5}, 2)
	want := [][]int{{1, 2}, {3, 4}, {5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Batch() mismatch (-want +got):\n%s", diff)
	}
	if got := Batch([]int{1}, 0); len(got) != 1 {
		t.Errorf("Batch(size 0) = %v", got)
	}
}
