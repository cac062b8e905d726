package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"limitless/fixcodec"
	"limitless/quote"
)

func TestQueue_TrySubmitAndNext(t *testing.T) {
	q := New(2)
	require.NoError(t, q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 1}))

	ctx := context.Background()
	cmd, ok := q.Next(ctx)
	require.True(t, ok)
	require.EqualValues(t, 1, cmd.OrderID)
}

func TestQueue_TrySubmitReturnsErrFullAtCapacity(t *testing.T) {
	q := New(1)
	require.NoError(t, q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 1}))
	err := q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 2})
	require.ErrorIs(t, err, ErrFull)
}

func TestQueue_TrySubmitReturnsErrClosedAfterClose(t *testing.T) {
	q := New(1)
	q.Close()
	err := q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 1})
	require.ErrorIs(t, err, ErrClosed)
}

func TestQueue_SubmitBlocksUntilSlotFreed(t *testing.T) {
	q := New(1)
	require.NoError(t, q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 1}))

	done := make(chan error, 1)
	go func() {
		done <- q.Submit(context.Background(), fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 2})
	}()

	select {
	case <-done:
		t.Fatal("Submit must block while the queue is full")
	case <-time.After(20 * time.Millisecond):
	}

	_, ok := q.Next(context.Background())
	require.True(t, ok)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Submit never unblocked after a slot freed")
	}
}

func TestQueue_SubmitRespectsContextCancellation(t *testing.T) {
	q := New(1)
	require.NoError(t, q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Submit(ctx, fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 2})
	require.ErrorIs(t, err, context.Canceled)
}

func TestQueue_LenAndCap(t *testing.T) {
	q := New(4)
	require.Equal(t, 4, q.Cap())
	require.Equal(t, 0, q.Len())
	require.NoError(t, q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 1}))
	require.Equal(t, 1, q.Len())
}

func TestQueue_NextDrainsBufferedCommandsAfterClose(t *testing.T) {
	q := New(4)
	require.NoError(t, q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 1}))
	require.NoError(t, q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: 2}))
	q.Close()

	ctx := context.Background()
	cmd, ok := q.Next(ctx)
	require.True(t, ok)
	require.EqualValues(t, 1, cmd.OrderID)

	cmd, ok = q.Next(ctx)
	require.True(t, ok)
	require.EqualValues(t, 2, cmd.OrderID)

	_, ok = q.Next(ctx)
	require.False(t, ok, "Next must report empty once every buffered command has drained")
}

func TestQueue_CloseDuringConcurrentTrySubmitNeverPanics(t *testing.T) {
	q := New(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			_ = q.TrySubmit(fixcodec.Command{Kind: fixcodec.CommandCancel, OrderID: quote.OrderID(i)})
		}
	}()

	q.Close()
	<-done
}
