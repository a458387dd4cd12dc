package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/booking/bookingmock"
	"github.com/alex-user-go/hotelview/internal/errs"
)

const (
	waitFor = time.Second
	tick    = 2 * time.Millisecond
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDetailFetcher(t *testing.T) (*DetailFetcher, *bookingmock.MockAPI) {
	t.Helper()
	api := bookingmock.NewMockAPI(gomock.NewController(t))
	f := NewDetailFetcher(api, discardLogger())
	t.Cleanup(f.Close)
	return f, api
}

func requireDetailStatus(t *testing.T, f *DetailFetcher, want Status) State[*booking.Hotel] {
	t.Helper()
	require.Eventually(t, func() bool { return f.State().Status == want }, waitFor, tick,
		"status never became %s", want)
	return f.State()
}

func TestDetailFetcher_Load(t *testing.T) {
	f, api := newDetailFetcher(t)
	api.EXPECT().GetHotel(gomock.Any(), "diH7").
		Return(&booking.Hotel{ID: "diH7", Name: "The Fullerton Hotel"}, nil).Times(1)

	assert.Equal(t, StatusIdle, f.State().Status)

	f.Load(context.Background(), "diH7")

	select {
	case <-f.Changed():
	case <-time.After(waitFor):
		t.Fatal("no change notification after Load")
	}

	state := requireDetailStatus(t, f, StatusReady)
	assert.Equal(t, "diH7", state.Key)
	assert.Equal(t, "The Fullerton Hotel", state.Value.Name)
	assert.NoError(t, state.Err)
}

func TestDetailFetcher_SameIDRequestsOnce(t *testing.T) {
	f, api := newDetailFetcher(t)
	api.EXPECT().GetHotel(gomock.Any(), "diH7").
		Return(&booking.Hotel{ID: "diH7"}, nil).Times(1)

	f.Load(context.Background(), "diH7")
	f.Load(context.Background(), "diH7")
	requireDetailStatus(t, f, StatusReady)

	f.Load(context.Background(), "diH7")
	f.wg.Wait()
	assert.Equal(t, StatusReady, f.State().Status)
}

func TestDetailFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "not found",
			err:     errs.Mark(errors.New("/api/hotels/nope returned 404"), booking.ErrNotFound),
			wantErr: booking.ErrNotFound,
		},
		{
			name:    "transport failure",
			err:     errs.Mark(errors.New("connection refused"), booking.ErrTransport),
			wantErr: booking.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, api := newDetailFetcher(t)
			// Times(1): errors are surfaced, never retried.
			api.EXPECT().GetHotel(gomock.Any(), "nope").Return(nil, tt.err).Times(1)

			f.Load(context.Background(), "nope")

			state := requireDetailStatus(t, f, StatusError)
			assert.Nil(t, state.Value)
			assert.True(t, errs.Is(state.Err, tt.wantErr), "got %v", state.Err)

			f.wg.Wait()
			assert.Equal(t, StatusError, f.State().Status)
		})
	}
}

func TestDetailFetcher_Reload(t *testing.T) {
	f, api := newDetailFetcher(t)
	gomock.InOrder(
		api.EXPECT().GetHotel(gomock.Any(), "diH7").
			Return(nil, errs.Mark(errors.New("timeout"), booking.ErrTransport)),
		api.EXPECT().GetHotel(gomock.Any(), "diH7").
			Return(&booking.Hotel{ID: "diH7", Name: "Back"}, nil),
	)

	f.Reload(context.Background()) // nothing loaded yet: no-op

	f.Load(context.Background(), "diH7")
	requireDetailStatus(t, f, StatusError)

	f.Reload(context.Background())
	state := requireDetailStatus(t, f, StatusReady)
	assert.Equal(t, "Back", state.Value.Name)
}

func TestDetailFetcher_LastIdentifierWins(t *testing.T) {
	f, api := newDetailFetcher(t)

	releaseA := make(chan struct{})
	startedA := make(chan struct{})

	// A ignores cancellation and resolves after B, like a transport that
	// cannot abort a request.
	api.EXPECT().GetHotel(gomock.Any(), "A").
		DoAndReturn(func(context.Context, string) (*booking.Hotel, error) {
			close(startedA)
			<-releaseA
			return &booking.Hotel{ID: "A", Name: "Hotel A"}, nil
		}).Times(1)
	api.EXPECT().GetHotel(gomock.Any(), "B").
		Return(&booking.Hotel{ID: "B", Name: "Hotel B"}, nil).Times(1)

	f.Load(context.Background(), "A")
	<-startedA
	f.Load(context.Background(), "B")

	state := requireDetailStatus(t, f, StatusReady)
	assert.Equal(t, "B", state.Key)

	close(releaseA)
	f.wg.Wait()

	final := f.State()
	assert.Equal(t, StatusReady, final.Status)
	assert.Equal(t, "B", final.Key)
	assert.Equal(t, "Hotel B", final.Value.Name)
}

func TestDetailFetcher_SupersededRequestIsCancelled(t *testing.T) {
	f, api := newDetailFetcher(t)

	cancelled := make(chan struct{})
	api.EXPECT().GetHotel(gomock.Any(), "A").
		DoAndReturn(func(ctx context.Context, _ string) (*booking.Hotel, error) {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}).Times(1)
	api.EXPECT().GetHotel(gomock.Any(), "B").
		Return(&booking.Hotel{ID: "B"}, nil).Times(1)

	f.Load(context.Background(), "A")
	f.Load(context.Background(), "B")

	select {
	case <-cancelled:
	case <-time.After(waitFor):
		t.Fatal("superseded request was not cancelled")
	}
	state := requireDetailStatus(t, f, StatusReady)
	assert.Equal(t, "B", state.Key)
}

func TestDetailFetcher_Close(t *testing.T) {
	f, api := newDetailFetcher(t)
	api.EXPECT().GetHotel(gomock.Any(), "diH7").
		DoAndReturn(func(ctx context.Context, _ string) (*booking.Hotel, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).Times(1)

	f.Load(context.Background(), "diH7")
	f.Close()

	// The cancelled request must not surface as an error after teardown.
	assert.Equal(t, StatusLoading, f.State().Status)

	f.Load(context.Background(), "other")
	assert.Equal(t, "diH7", f.State().Key)
}

func TestDetailFetcher_Await(t *testing.T) {
	f, api := newDetailFetcher(t)
	api.EXPECT().GetHotel(gomock.Any(), "diH7").
		Return(nil, errs.Mark(errors.New("boom"), booking.ErrTransport)).Times(1)

	state, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, state.Status, "nothing to wait for before Load")

	f.Load(context.Background(), "diH7")
	state, err = f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusError, state.Status)
	assert.True(t, errs.Is(state.Err, booking.ErrTransport))
}

func TestDetailFetcher_AwaitHonoursContext(t *testing.T) {
	f, api := newDetailFetcher(t)
	api.EXPECT().GetHotel(gomock.Any(), "diH7").
		DoAndReturn(func(ctx context.Context, _ string) (*booking.Hotel, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).Times(1)

	f.Load(context.Background(), "diH7")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	state, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusLoading, state.Status)
}
