package task_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/b97tsk/task"
)

func TestAllEmpty(t *testing.T) {
	t.Parallel()

	o := task.All[string, int](nil).Wait()
	require.False(t, o.Failed())
	require.NotNil(t, o.Value())
	require.Empty(t, o.Value())
}

func TestAllPreservesOrder(t *testing.T) {
	t.Parallel()

	// Completion order is 2, 3, 1; the result must be in index order.
	s := []task.Task[string, int]{
		task.After[string](30*time.Millisecond, 1),
		task.After[string](10*time.Millisecond, 2),
		task.After[string](20*time.Millisecond, 3),
	}
	o := task.All(s).Wait()
	require.False(t, o.Failed())
	require.Equal(t, []int{1, 2, 3}, o.Value())
}

func TestAllSynchronous(t *testing.T) {
	t.Parallel()

	s := []task.Task[string, int]{
		task.Succeed[string](1),
		task.Succeed[string](2),
		task.Succeed[string](3),
	}
	require.Equal(t, []int{1, 2, 3}, task.All(s).Wait().Value())
}

func TestAllFailFast(t *testing.T) {
	t.Parallel()

	var canceled atomic.Int32
	s := []task.Task[string, int]{
		pending[string, int](&canceled), // outstanding when the failure arrives
		task.Fail[string, int]("E"),
		task.Succeed[string](3),
	}
	o := task.All(s).Wait()
	require.True(t, o.Failed())
	require.Equal(t, "E", o.Err())
	require.Equal(t, int32(1), canceled.Load())
}

func TestAllReportsFirstFailureOnly(t *testing.T) {
	t.Parallel()

	s := []task.Task[string, int]{
		task.Fail[string, int]("first"),
		task.Fail[string, int]("second"),
	}
	o := task.All(s).Wait()
	require.True(t, o.Failed())
	require.Equal(t, "first", o.Err())
}

func TestAllAsyncFailureCancelsSiblings(t *testing.T) {
	t.Parallel()

	var canceled atomic.Int32
	s := []task.Task[string, int]{
		afterCount(100*time.Millisecond, 1, &canceled),
		failAfter[int](10*time.Millisecond, "E"),
	}
	o := task.All(s).Wait()
	require.True(t, o.Failed())
	require.Equal(t, "E", o.Err())
	require.Equal(t, int32(1), canceled.Load())
}

func TestAllCancel(t *testing.T) {
	t.Parallel()

	var canceled atomic.Int32
	var settled atomic.Bool
	s := []task.Task[string, int]{
		pending[string, int](&canceled),
		pending[string, int](&canceled),
	}
	cancel := task.All(s).Start(
		func(string) { settled.Store(true) },
		func([]int) { settled.Store(true) },
	)
	cancel()
	require.Equal(t, int32(2), canceled.Load())
	require.False(t, settled.Load())

	cancel()
	require.Equal(t, int32(2), canceled.Load())
}

func TestRaceEmpty(t *testing.T) {
	t.Parallel()

	var settled atomic.Bool
	cancel := task.Race[string, int](nil).Start(
		func(string) { settled.Store(true) },
		func(int) { settled.Store(true) },
	)
	time.Sleep(50 * time.Millisecond)
	require.False(t, settled.Load())
	require.NotPanics(t, func() { cancel() })
}

func TestRaceSynchronousWinner(t *testing.T) {
	t.Parallel()

	// The winner settles during the start loop; the delayed sibling
	// must still be started, and its cancellation must fire.
	var canceled atomic.Int32
	s := []task.Task[string, int]{
		task.Succeed[string](1),
		afterCount(50*time.Millisecond, 2, &canceled),
	}
	o := task.Race(s).Wait()
	require.False(t, o.Failed())
	require.Equal(t, 1, o.Value())
	require.Equal(t, int32(1), canceled.Load())
}

func TestRaceFirstSettlementWins(t *testing.T) {
	t.Parallel()

	// A failure that arrives first wins the race.
	var canceled atomic.Int32
	s := []task.Task[string, int]{
		failAfter[int](10*time.Millisecond, "E"),
		afterCount(100*time.Millisecond, 2, &canceled),
	}
	o := task.Race(s).Wait()
	require.True(t, o.Failed())
	require.Equal(t, "E", o.Err())
	require.Equal(t, int32(1), canceled.Load())
}

func TestRaceLosersAreIgnored(t *testing.T) {
	t.Parallel()

	s := []task.Task[string, int]{
		task.After[string](10*time.Millisecond, 1),
		task.After[string](20*time.Millisecond, 2),
	}
	var wins atomic.Int32
	var got atomic.Int32
	task.Race(s).Start(
		func(string) { wins.Add(1) },
		func(v int) { wins.Add(1); got.Store(int32(v)) },
	)
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), wins.Load())
	require.Equal(t, int32(1), got.Load())
}

func TestRaceCancel(t *testing.T) {
	t.Parallel()

	var canceled atomic.Int32
	var settled atomic.Bool
	s := []task.Task[string, int]{
		pending[string, int](&canceled),
		pending[string, int](&canceled),
	}
	cancel := task.Race(s).Start(
		func(string) { settled.Store(true) },
		func(int) { settled.Store(true) },
	)
	cancel()
	require.Equal(t, int32(2), canceled.Load())
	require.False(t, settled.Load())
}
