package reiterator_test

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/reiterator/pkg/reiterator"
)

func Test_Reiterator_At_Pulls_Only_What_Is_Needed_When_Jumping(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []rune{'a', 'b', 'c'}, reiterator.Options{})

	h := mustAt(t, it, 1)
	assert.Equal(t, 'b', *h.Value)
	assert.Equal(t, 2, it.Stats().Pulls, "At(1) should pull exactly two elements")

	h = mustAt(t, it, 0)
	assert.Equal(t, 'a', *h.Value)
	assert.Equal(t, 2, it.Stats().Pulls, "At(0) is cached and must not pull")

	requireAbsent(t)(it.At(5))
	assert.Equal(t, 3, it.Stats().Pulls, "At(5) pulls only 'c'")
	assert.Equal(t, 4, src.calls, "one more call observes the end")

	requireAbsent(t)(it.At(5))
	requireAbsent(t)(it.At(3))
	assert.Equal(t, 4, src.calls, "an exhausted source is never polled again")

	want := reiterator.Stats{Cached: 3, Pulls: 3, Polls: 4, Exhausted: true, Chunks: 1}
	diff := cmp.Diff(want, it.Stats())
	assert.Empty(t, diff, "stats mismatch")
}

func Test_Reiterator_Returns_Absent_When_Source_Empty(t *testing.T) {
	t.Parallel()

	it, src := newCounting[int](t, nil, reiterator.Options{})

	requireAbsent(t)(it.At(0))
	requireAbsent(t)(it.Next())
	requireAbsent(t)(it.Get())

	assert.Equal(t, 1, src.calls, "only one call to observe the end")
	assert.Equal(t, 0, it.Index())
	assert.Equal(t, 0, it.Len())

	want := reiterator.Stats{Pulls: 0, Polls: 1, Exhausted: true, Chunks: 0}
	diff := cmp.Diff(want, it.Stats())
	assert.Empty(t, diff, "an empty source pulls nothing and allocates nothing")
}

func Test_Reiterator_Does_Not_Pull_When_Constructed(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{1, 2, 3}, reiterator.Options{})
	it.SetIndex(2)
	it.Restart()
	it.SetIndex(100)

	assert.Equal(t, 0, src.calls, "cursor moves must not pull")
	assert.Equal(t, reiterator.Stats{}, it.Stats())
}

func Test_Reiterator_Next_Enumerates_Source_In_Order_When_Called_Repeatedly(t *testing.T) {
	t.Parallel()

	items := []string{"x", "y", "z", "w"}
	it, src := newCounting(t, items, reiterator.Options{ChunkSize: 3})

	for i, want := range items {
		h, ok, err := it.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, i, h.Index)
		assert.Equal(t, want, *h.Value)
		assert.Equal(t, i+1, it.Index())
	}

	for range 3 {
		requireAbsent(t)(it.Next())
		assert.Equal(t, len(items), it.Index(), "cursor must not move past the end")
	}

	assert.Equal(t, len(items)+1, src.calls)
}

func Test_Reiterator_Get_Returns_Identical_Handle_When_Called_Repeatedly(t *testing.T) {
	t.Parallel()

	it, _ := newCounting(t, []int{10, 20}, reiterator.Options{})

	first, ok, err := it.Get()
	require.NoError(t, err)
	require.True(t, ok)

	second, ok, err := it.Get()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 0, it.Index(), "Get must not advance")
	assert.Equal(t, first.Index, second.Index)
	assert.Same(t, first.Value, second.Value)
}

// Get peeks and Next reads then moves: interleaving them never doubles or
// skips an advance.
func Test_Reiterator_Get_And_Next_Agree_When_Interleaved(t *testing.T) {
	t.Parallel()

	it := reiterator.FromSlice([]rune{'a', 'b', 'c'})

	var trace []string

	record := func(op string, h reiterator.Indexed[rune], ok bool, err error) {
		require.NoError(t, err)

		if !ok {
			trace = append(trace, op+":none")

			return
		}

		trace = append(trace, op+":"+string(*h.Value))
	}

	h, ok, err := it.Get()
	record("get", h, ok, err)
	h, ok, err = it.Next()
	record("next", h, ok, err)
	h, ok, err = it.Get()
	record("get", h, ok, err)
	h, ok, err = it.Get()
	record("get", h, ok, err)
	h, ok, err = it.Next()
	record("next", h, ok, err)
	h, ok, err = it.Next()
	record("next", h, ok, err)
	h, ok, err = it.Get()
	record("get", h, ok, err)
	h, ok, err = it.Next()
	record("next", h, ok, err)

	want := []string{"get:a", "next:a", "get:b", "get:b", "next:b", "next:c", "get:none", "next:none"}

	diff := cmp.Diff(want, trace)
	assert.Empty(t, diff, "peek/advance trace mismatch")
}

func Test_Reiterator_Restart_Replays_Identical_Handles_When_Traversed_Twice(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{5, 6, 7, 8, 9}, reiterator.Options{ChunkSize: 2})

	var first []reiterator.Indexed[int]

	for i, v := range it.All() {
		first = append(first, reiterator.Indexed[int]{Index: i, Value: v})
	}

	require.NoError(t, it.Err())

	it.Restart()
	assert.Equal(t, 0, it.Index())

	var second []reiterator.Indexed[int]

	for i, v := range it.All() {
		second = append(second, reiterator.Indexed[int]{Index: i, Value: v})
	}

	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].Index, second[i].Index)
		assert.Same(t, first[i].Value, second[i].Value, "position %d", i)
	}

	assert.Equal(t, 6, src.calls, "the second traversal must not pull")
	src.requireEachPulledOnce(t)
}

func Test_Reiterator_At_Does_Not_Move_Cursor_When_Jumping(t *testing.T) {
	t.Parallel()

	items := []int{0, 10, 20, 30, 40, 50}
	it := reiterator.FromSlice(items)

	_, _, err := it.Next()
	require.NoError(t, err)

	for k := range items {
		h := mustAt(t, it, k)
		assert.Equal(t, items[k], *h.Value)
		assert.Equal(t, 1, it.Index())
	}

	// Next reaches every position with the same handle At returned.
	it.Restart()

	for k := range items {
		atHandle := mustAt(t, it, k)

		h, ok, err := it.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Same(t, atHandle.Value, h.Value)
	}
}

func Test_Reiterator_Handles_Stay_Identical_When_Cache_Grows(t *testing.T) {
	t.Parallel()

	const n = 1 << 16

	it := reiterator.FromFunc(counter(n))

	handles := make([]*int, 0, n)

	for i := range n {
		h := mustAt(t, it, i)
		handles = append(handles, h.Value)
	}

	for i, want := range handles {
		h := mustAt(t, it, i)
		require.Same(t, want, h.Value, "position %d moved", i)
		require.Equal(t, i, *h.Value)
	}
}

func Test_Reiterator_Pulls_Each_Position_Once_When_Accessed_In_Any_Order(t *testing.T) {
	t.Parallel()

	items := make([]int, 50)
	for i := range items {
		items[i] = i * i
	}

	it, src := newCounting(t, items, reiterator.Options{ChunkSize: 4})

	order := []int{3, 0, 49, 10, 60, 2, 49, 0, 25, 51, 1}
	for _, pos := range order {
		h, ok, err := it.At(pos)
		require.NoError(t, err)

		if pos < len(items) {
			require.True(t, ok)
			assert.Equal(t, items[pos], *h.Value)
		} else {
			assert.False(t, ok)
		}
	}

	for range 3 {
		it.Restart()

		for range it.All() {
		}
	}

	src.requireEachPulledOnce(t)
	assert.Equal(t, len(items)+1, src.calls)
}

func Test_Reiterator_Returns_Absent_Without_Pulling_When_Position_Negative(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{1, 2, 3}, reiterator.Options{})

	requireAbsent(t)(it.At(-1))

	it.SetIndex(-5)
	requireAbsent(t)(it.Get())
	requireAbsent(t)(it.Next())
	require.NoError(t, it.Populate())

	assert.Equal(t, -5, it.Index(), "Next must not advance on absence")
	assert.Equal(t, 0, src.calls)
}

func Test_Reiterator_Peek_Returns_Only_Cached_When_Called(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{1, 2, 3}, reiterator.Options{})

	_, ok := it.Peek(0)
	assert.False(t, ok, "nothing computed yet")

	_, ok = it.Read()
	assert.False(t, ok)

	mustAt(t, it, 1)

	h, ok := it.Peek(1)
	require.True(t, ok)
	assert.Equal(t, 2, *h.Value)

	_, ok = it.Peek(2)
	assert.False(t, ok, "position 2 is in bounds but not computed")

	h, ok = it.Read()
	require.True(t, ok)
	assert.Equal(t, 0, h.Index)

	assert.Equal(t, 2, src.calls)
}

func Test_Reiterator_Seek_Moves_Cursor_And_Materializes_When_Called(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []rune{'a', 'b', 'c'}, reiterator.Options{})

	h, ok, err := it.Seek(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 'b', *h.Value)
	assert.Equal(t, 1, it.Index())
	assert.Equal(t, 2, src.calls)

	requireAbsent(t)(it.Seek(7))
	assert.Equal(t, 7, it.Index(), "Seek moves the cursor even when absent")
}

func Test_Reiterator_Advance_Moves_Cursor_Without_Pulling_When_Called(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{1, 2, 3}, reiterator.Options{})

	require.True(t, it.Advance())
	require.True(t, it.Advance())
	assert.Equal(t, 2, it.Index())
	assert.Equal(t, 0, src.calls)

	require.NoError(t, it.Populate())
	assert.Equal(t, 3, it.Len(), "Populate fills up to the cursor")

	h, ok := it.Read()
	require.True(t, ok)
	assert.Equal(t, 3, *h.Value)
}

func Test_Reiterator_Advance_Returns_False_When_Cursor_Would_Overflow(t *testing.T) {
	t.Parallel()

	it := reiterator.FromSlice([]int{1})
	it.SetIndex(math.MaxInt)

	assert.False(t, it.Advance())
	assert.Equal(t, math.MaxInt, it.Index())
}

func Test_Reiterator_Returns_ErrAllocation_Without_Dropping_When_MaxCached_Reached(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{1, 2, 3, 4}, reiterator.Options{MaxCached: 2, ChunkSize: 1})

	first := mustAt(t, it, 1)

	_, ok, err := it.At(2)
	require.ErrorIs(t, err, reiterator.ErrAllocation)
	assert.False(t, ok)
	assert.Equal(t, 3, src.calls, "the third element is pulled before the store refuses it")
	assert.Equal(t, 3, it.Stats().Pulls)
	assert.Equal(t, 2, it.Len())

	_, _, err = it.At(3)
	require.ErrorIs(t, err, reiterator.ErrAllocation, "the failure is repeatable")
	assert.Equal(t, 3, src.calls, "a retry stores the held element instead of pulling again")
	src.requireEachPulledOnce(t)

	again := mustAt(t, it, 1)
	assert.Same(t, first.Value, again.Value, "cached elements survive the failure")

	it.SetIndex(2)
	_, ok, err = it.Next()
	require.ErrorIs(t, err, reiterator.ErrAllocation)
	assert.False(t, ok)
	assert.Equal(t, 2, it.Index(), "Next must not advance on error")

	require.ErrorIs(t, it.Populate(), reiterator.ErrAllocation)
	assert.Equal(t, 3, src.calls)
}

func Test_Reiterator_Reaches_End_When_MaxCached_Equals_Source_Length(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{1, 2, 3}, reiterator.Options{MaxCached: 3})

	for i := range 3 {
		h, ok, err := it.Next()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, h.Index)
	}

	requireAbsent(t)(it.Next())
	requireAbsent(t)(it.At(10))

	assert.True(t, it.Exhausted())
	assert.Equal(t, 4, src.calls)

	want := reiterator.Stats{Cached: 3, Pulls: 3, Polls: 4, Exhausted: true, Chunks: 1}
	diff := cmp.Diff(want, it.Stats())
	assert.Empty(t, diff, "stats mismatch")
}

func Test_Reiterator_Allocates_No_Empty_Chunk_When_Length_Is_Chunk_Multiple(t *testing.T) {
	t.Parallel()

	it, err := reiterator.New(reiterator.SliceSource([]int{1, 2, 3, 4}), reiterator.Options{ChunkSize: 2})
	require.NoError(t, err)

	for range it.All() {
	}

	assert.Equal(t, 2, it.Stats().Chunks)
}

func Test_Reiterator_Drops_Held_Element_When_Closed(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{1, 2, 3}, reiterator.Options{MaxCached: 1})

	_, _, err := it.At(1)
	require.ErrorIs(t, err, reiterator.ErrAllocation)

	require.NoError(t, it.Close())

	requireAbsent(t)(it.At(1))
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 1, it.Len())
}

func Test_FromSource_Behaves_As_Empty_When_Source_Nil(t *testing.T) {
	t.Parallel()

	it := reiterator.FromSource[int](nil)

	requireAbsent(t)(it.At(0))
	requireAbsent(t)(it.Next())
	assert.True(t, it.Exhausted())
	assert.Equal(t, 0, it.Stats().Pulls)

	_, err := reiterator.New[int](nil, reiterator.Options{})
	require.ErrorIs(t, err, reiterator.ErrInvalidInput, "New rejects what FromSource tolerates")
}

func Test_Reiterator_Next_Leaves_Cursor_When_At_MaxInt(t *testing.T) {
	t.Parallel()

	it := reiterator.FromSlice([]int{1, 2})
	it.SetIndex(math.MaxInt)

	requireAbsent(t)(it.Next())
	assert.Equal(t, math.MaxInt, it.Index())
}

func Test_Reiterator_All_Reports_Err_When_Allocation_Fails(t *testing.T) {
	t.Parallel()

	it, _ := newCounting(t, []int{1, 2, 3}, reiterator.Options{MaxCached: 2})

	got := slices.Collect(reiterator.Values(it.All()))
	require.Len(t, got, 2)
	require.ErrorIs(t, it.Err(), reiterator.ErrAllocation)
	assert.Equal(t, 2, it.Index())

	it.Restart()

	indices := slices.Collect(reiterator.Indices(it.All()))
	assert.Equal(t, []int{0, 1}, indices)
}

func Test_Reiterator_All_Starts_At_Cursor_When_Ranged(t *testing.T) {
	t.Parallel()

	it := reiterator.FromSlice([]string{"a", "b", "c", "d"})
	it.SetIndex(2)

	var got []string
	for _, v := range it.All() {
		got = append(got, *v)
	}

	assert.Equal(t, []string{"c", "d"}, got)
	require.NoError(t, it.Err())
}

func Test_Reiterator_All_Leaves_Cursor_After_Last_Yield_When_Broken(t *testing.T) {
	t.Parallel()

	it := reiterator.FromSlice([]int{1, 2, 3, 4})

	for i := range reiterator.Indices(it.All()) {
		if i == 1 {
			break
		}
	}

	assert.Equal(t, 2, it.Index())
}

func Test_Reiterator_New_Returns_Error_When_Options_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  reiterator.Source[int]
		opts reiterator.Options
	}{
		{name: "NilSource", src: nil},
		{name: "NegativeChunkSize", src: reiterator.SliceSource([]int{1}), opts: reiterator.Options{ChunkSize: -1}},
		{name: "NegativeMaxCached", src: reiterator.SliceSource([]int{1}), opts: reiterator.Options{MaxCached: -3}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			it, err := reiterator.New(testCase.src, testCase.opts)
			require.ErrorIs(t, err, reiterator.ErrInvalidInput)
			assert.Nil(t, it)
		})
	}
}

func Test_Reiterator_Close_Closes_Source_And_Keeps_Cache_When_Called(t *testing.T) {
	t.Parallel()

	it, src := newCounting(t, []int{1, 2, 3}, reiterator.Options{})

	first := mustAt(t, it, 0)

	require.NoError(t, it.Close())
	require.NoError(t, it.Close(), "Close is idempotent")
	assert.True(t, src.closed)
	assert.True(t, it.Exhausted())

	again := mustAt(t, it, 0)
	assert.Same(t, first.Value, again.Value)

	requireAbsent(t)(it.At(1))
	assert.Equal(t, 1, src.calls, "closed sources are never pulled")
}

func Test_Reiterator_FromSeq_Pulls_Lazily_When_Wrapping_Seq(t *testing.T) {
	t.Parallel()

	produced := 0
	seq := func(yield func(int) bool) {
		for i := range 10 {
			produced++

			if !yield(i * 2) {
				return
			}
		}
	}

	it := reiterator.FromSeq(seq)

	h := mustAt(t, it, 3)
	assert.Equal(t, 6, *h.Value)
	assert.Equal(t, 4, produced)

	require.NoError(t, it.Close())
	assert.Equal(t, 4, produced, "Close must stop the sequence")
}

func Test_Reiterator_Logs_Fill_And_Exhaustion_When_Logger_Set(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	it, err := reiterator.New(reiterator.SliceSource([]int{1, 2}), reiterator.Options{Logger: &logger})
	require.NoError(t, err)

	_, ok, err := it.At(4)
	require.NoError(t, err)
	require.False(t, ok)

	out := buf.String()
	assert.Contains(t, out, `"message":"source exhausted"`)
	assert.Contains(t, out, `"length":2`)
	assert.Contains(t, out, `"message":"fill"`)

	buf.Reset()

	mustAt(t, it, 1)
	assert.Empty(t, buf.String(), "cached reads must not log")
}

func Test_Reiterator_Logs_Warning_When_Allocation_Fails(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := zerolog.New(&buf).Level(zerolog.WarnLevel)

	it, err := reiterator.New(reiterator.SliceSource([]int{1, 2}), reiterator.Options{MaxCached: 1, Logger: &logger})
	require.NoError(t, err)

	_, _, err = it.At(1)
	require.True(t, errors.Is(err, reiterator.ErrAllocation))

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"message":"allocation failed"`)
}

func Test_Projection_Helpers_Propagate_Absence_When_Handle_Zero(t *testing.T) {
	t.Parallel()

	var absent reiterator.Indexed[string]

	assert.Nil(t, reiterator.Value(absent))

	_, ok := reiterator.IndexOf(absent)
	assert.False(t, ok)

	_, ok = reiterator.CopyValue(absent)
	assert.False(t, ok)

	it := reiterator.FromSlice([]string{"a", "b"})
	h := mustAt(t, it, 1)

	assert.Equal(t, "b", *reiterator.Value(h))

	idx, ok := reiterator.IndexOf(h)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	v, ok := reiterator.CopyValue(h)
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func Test_Stats_Reports_Counters_When_Source_Drained(t *testing.T) {
	t.Parallel()

	it, err := reiterator.New(reiterator.SliceSource([]int{1, 2, 3, 4, 5}), reiterator.Options{ChunkSize: 2})
	require.NoError(t, err)

	for range it.All() {
	}

	want := reiterator.Stats{Cached: 5, Pulls: 5, Polls: 6, Exhausted: true, Chunks: 3}

	diff := cmp.Diff(want, it.Stats())
	assert.Empty(t, diff, "stats mismatch")
}

// counter returns a source function yielding 0..n-1.
func counter(n int) func() (int, bool) {
	i := 0

	return func() (int, bool) {
		if i >= n {
			return 0, false
		}

		i++

		return i - 1, true
	}
}
