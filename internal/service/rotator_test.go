package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/goslide/internal/adapter/clock"
	"github.com/tejashwikalptaru/goslide/internal/adapter/effects/mock"
	"github.com/tejashwikalptaru/goslide/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/goslide/internal/adapter/source/static"
	"github.com/tejashwikalptaru/goslide/internal/domain"
	"github.com/tejashwikalptaru/goslide/internal/logger"
	"github.com/tejashwikalptaru/goslide/internal/testutil"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Helper to create a rotator over text slides with a mounted recording surface
func newTestRotator(t *testing.T, ids ...string) (*Rotator, *mock.Surface, *clock.Manual, *eventbus.SyncEventBus) {
	t.Helper()

	slides := static.Text(ids...)
	surface := mock.NewSurface()
	require.NoError(t, surface.Mount(slides))

	bus := eventbus.NewSyncEventBus()
	clk := clock.NewManual(epoch)

	r, err := NewRotator(context.Background(), logger.NewTestLogger(), static.New("test", slides...), surface, bus, clk)
	require.NoError(t, err)

	return r, surface, clk, bus
}

// waitForTransitions waits until the surface has recorded n requests.
func waitForTransitions(t *testing.T, surface *mock.Surface, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return surface.TransitionCount() == n
	}, time.Second, time.Millisecond, "expected %d transitions", n)
}

func TestNewRotator_EmptySequence(t *testing.T) {
	surface := mock.NewSurface()

	r, err := NewRotator(context.Background(), logger.NewTestLogger(), static.New("empty"), surface, nil, clock.NewManual(epoch))

	assert.Nil(t, r)
	assert.ErrorIs(t, err, domain.ErrEmptySequence)
	assert.Zero(t, surface.TransitionCount())
}

func TestNewRotator_ProviderUnavailable(t *testing.T) {
	boom := errors.New("disk on fire")

	r, err := NewRotator(context.Background(), logger.NewTestLogger(), static.Failing("broken", boom), mock.NewSurface(), nil, clock.NewManual(epoch))

	assert.Nil(t, r)
	assert.ErrorIs(t, err, domain.ErrSurfaceUnavailable)
	assert.ErrorIs(t, err, boom)

	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Rotator", svcErr.Service)
}

func TestNewRotator_MissingSink(t *testing.T) {
	_, err := NewRotator(context.Background(), logger.NewTestLogger(), static.New("deck", static.Text("a")...), nil, nil, clock.NewManual(epoch))
	assert.ErrorIs(t, err, domain.ErrSurfaceUnavailable)
}

func TestNewRotator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRotator(ctx, logger.NewTestLogger(), static.New("deck", static.Text("a")...), mock.NewSurface(), nil, clock.NewManual(epoch))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRotator_StartsAtFirstSlide(t *testing.T) {
	r, surface, _, _ := newTestRotator(t, "a", "b", "c")

	assert.Equal(t, 0, r.Index())
	assert.Equal(t, "a", r.Current().Slide.ID)
	assert.Zero(t, surface.TransitionCount())
	assert.NotEmpty(t, r.RunID())

	state := r.State()
	assert.Equal(t, 3, state.Total)
	assert.Equal(t, "test", state.Source)
	assert.False(t, state.Running)
	assert.Zero(t, state.Ticks)
}

func TestRotator_ThreeSlides(t *testing.T) {
	r, surface, _, _ := newTestRotator(t, "a", "b", "c")

	r.Advance()
	r.Advance()
	r.Advance()

	got := make([]string, 0, 6)
	for _, tr := range surface.Transitions() {
		got = append(got, tr.String())
		assert.Equal(t, domain.FadeSlow, tr.Speed)
	}

	assert.Equal(t, []string{
		"fade-out #0(a)", "fade-in #1(b)",
		"fade-out #1(b)", "fade-in #2(c)",
		"fade-out #2(c)", "fade-in #0(a)",
	}, got)
	assert.Equal(t, "a", r.Current().Slide.ID)
	assert.Equal(t, uint64(3), r.State().Ticks)
}

func TestRotator_CircularOrder(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	r, _, _, _ := newTestRotator(t, ids...)

	for k := 1; k <= 3*len(ids)+2; k++ {
		r.Advance()
		assert.Equal(t, k%len(ids), r.Index(), "after tick %d", k)
		assert.Equal(t, ids[k%len(ids)], r.Current().Slide.ID)
	}
}

func TestRotator_WrapsFromLastToFirst(t *testing.T) {
	r, surface, _, _ := newTestRotator(t, "a", "b")

	r.Advance()
	require.Equal(t, 1, r.Index())

	r.Advance()
	assert.Equal(t, 0, r.Index())

	last := surface.Transitions()[2:]
	assert.Equal(t, mock.Transition{Op: mock.OpFadeOut, Index: 1, ID: "b", Speed: domain.FadeSlow}, last[0])
	assert.Equal(t, mock.Transition{Op: mock.OpFadeIn, Index: 0, ID: "a", Speed: domain.FadeSlow}, last[1])
}

func TestRotator_ExactlyOneVisibleBetweenTicks(t *testing.T) {
	r, surface, _, _ := newTestRotator(t, "a", "b", "c", "d")

	assert.Equal(t, []int{0}, surface.Visible())
	for i := 0; i < 9; i++ {
		r.Advance()
		assert.Equal(t, []int{r.Index()}, surface.Visible())
	}
}

func TestRotator_TickTouchesOnlyPreviousAndNext(t *testing.T) {
	n := 4
	r, surface, _, _ := newTestRotator(t, "a", "b", "c", "d")

	for k := 0; k < 10; k++ {
		r.Advance()
	}

	transitions := surface.Transitions()
	require.Len(t, transitions, 20)
	for k := 0; k < 10; k++ {
		out, in := transitions[2*k], transitions[2*k+1]
		assert.Equal(t, mock.OpFadeOut, out.Op)
		assert.Equal(t, mock.OpFadeIn, in.Op)
		assert.Equal(t, k%n, out.Index, "tick %d hides the previous current", k+1)
		assert.Equal(t, (k+1)%n, in.Index, "tick %d shows the new current", k+1)
	}
}

func TestRotator_SingleSlide(t *testing.T) {
	r, surface, _, _ := newTestRotator(t, "a")

	r.Advance()

	assert.Equal(t, []mock.Transition{
		{Op: mock.OpFadeOut, Index: 0, ID: "a", Speed: domain.FadeSlow},
		{Op: mock.OpFadeIn, Index: 0, ID: "a", Speed: domain.FadeSlow},
	}, surface.Transitions())
	assert.Equal(t, 0, r.Index())
	assert.Equal(t, []int{0}, surface.Visible())
}

func TestRotator_SinkErrorDoesNotStopTick(t *testing.T) {
	log, capture := logger.NewCaptureLogger()
	slides := static.Text("a", "b", "c")
	surface := mock.NewSurface()
	require.NoError(t, surface.Mount(slides))

	r, err := NewRotator(context.Background(), log, static.New("test", slides...), surface, nil, clock.NewManual(epoch))
	require.NoError(t, err)
	surface.SetFailFadeOut(true)

	r.Advance()

	assert.Equal(t, 1, r.Index())
	transitions := surface.Transitions()
	require.Len(t, transitions, 1)
	assert.Equal(t, mock.OpFadeIn, transitions[0].Op)
	assert.True(t, capture.Contains("level=WARN", "fade out failed", "#0(a)"))

	surface.SetFailFadeOut(false)
	surface.SetFailFadeIn(true)
	r.Advance()

	assert.Equal(t, 2, r.Index())
	assert.Equal(t, 2, surface.TransitionCount())
	assert.True(t, capture.Contains("level=WARN", "fade in failed", "#2(c)"))
}

func TestRotator_PeriodIsNeverEarly(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	r, surface, clk, _ := newTestRotator(t, "a", "b", "c")
	require.NoError(t, r.Start())
	defer r.Stop()

	clk.Advance(domain.RotationPeriod - time.Millisecond)
	assert.Never(t, func() bool {
		return surface.TransitionCount() > 0
	}, 50*time.Millisecond, 5*time.Millisecond)

	clk.Advance(time.Millisecond)
	waitForTransitions(t, surface, 2)
	assert.Equal(t, 1, r.Index())

	clk.Advance(domain.RotationPeriod - time.Millisecond)
	assert.Never(t, func() bool {
		return surface.TransitionCount() > 2
	}, 50*time.Millisecond, 5*time.Millisecond)

	clk.Advance(time.Millisecond)
	waitForTransitions(t, surface, 4)
	assert.Equal(t, 2, r.Index())
}

func TestRotator_TicksDriveRotation(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	r, surface, clk, _ := newTestRotator(t, "a", "b", "c")
	require.NoError(t, r.Start())

	for k := 1; k <= 7; k++ {
		clk.Advance(domain.RotationPeriod)
		waitForTransitions(t, surface, 2*k)
	}

	assert.Equal(t, 7%3, r.Index())
	assert.True(t, r.State().Running)

	r.Stop()
	assert.False(t, r.State().Running)
}

func TestRotator_Lifecycle(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	r, surface, clk, _ := newTestRotator(t, "a", "b")

	require.NoError(t, r.Start())
	assert.ErrorIs(t, r.Start(), domain.ErrRotatorRunning)
	assert.Equal(t, 1, clk.ActiveTickers())

	r.Stop()
	r.Stop()
	assert.Zero(t, clk.ActiveTickers())
	assert.ErrorIs(t, r.Start(), domain.ErrRotatorStopped)

	// No ticks after dispose
	clk.Advance(3 * domain.RotationPeriod)
	r.Advance()
	assert.Zero(t, surface.TransitionCount())
	assert.Equal(t, 0, r.Index())
}

func TestRotator_StopBeforeStart(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	r, _, clk, bus := newTestRotator(t, "a", "b")

	var stopped int
	bus.Subscribe(domain.EventRotationStopped, func(domain.Event) { stopped++ })

	r.Stop()

	assert.ErrorIs(t, r.Start(), domain.ErrRotatorStopped)
	assert.Zero(t, clk.ActiveTickers())
	assert.Zero(t, stopped)
}

func TestRotator_PublishesEvents(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	r, surface, clk, bus := newTestRotator(t, "a", "b", "c")

	var mu sync.Mutex
	var events []domain.Event
	bus.SubscribeAll(func(e domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	require.NoError(t, r.Start())
	clk.Advance(domain.RotationPeriod)
	waitForTransitions(t, surface, 2)
	r.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 3)

	started, ok := events[0].(domain.RotationStartedEvent)
	require.True(t, ok, "expected RotationStartedEvent, got %T", events[0])
	assert.Equal(t, r.RunID(), started.RunID)
	assert.Equal(t, "test", started.Source)
	assert.Equal(t, 0, started.Current.Index)
	assert.Equal(t, 3, started.Total)

	changed, ok := events[1].(domain.SlideChangedEvent)
	require.True(t, ok, "expected SlideChangedEvent, got %T", events[1])
	assert.Equal(t, r.RunID(), changed.RunID)
	assert.Equal(t, "a", changed.Previous.Slide.ID)
	assert.Equal(t, "b", changed.Current.Slide.ID)
	assert.Equal(t, uint64(1), changed.Tick)

	stoppedEvt, ok := events[2].(domain.RotationStoppedEvent)
	require.True(t, ok, "expected RotationStoppedEvent, got %T", events[2])
	assert.Equal(t, uint64(1), stoppedEvt.Ticks)
}

func TestRotator_ConcurrentReaders(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	r, surface, clk, _ := newTestRotator(t, "a", "b", "c")
	require.NoError(t, r.Start())

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					ref := r.Current()
					assert.True(t, ref.Index >= 0 && ref.Index < 3)
					_ = r.State()
				}
			}
		}()
	}

	for k := 1; k <= 5; k++ {
		clk.Advance(domain.RotationPeriod)
		waitForTransitions(t, surface, 2*k)
	}

	close(done)
	wg.Wait()
	r.Stop()
}

func TestRotator_SlidesIsCopy(t *testing.T) {
	r, _, _, _ := newTestRotator(t, "a", "b")

	slides := r.Slides()
	slides[0].ID = "changed"

	assert.Equal(t, "a", r.Current().Slide.ID)
}
