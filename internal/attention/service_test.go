package attention

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/RMahshie/medvis/internal/gaze"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSessionRepository implements repository.SessionRepository for testing
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *gaze.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Update(ctx context.Context, id uuid.UUID, fn func(*gaze.Session) error) error {
	args := m.Called(ctx, id, fn)
	return args.Error(0)
}

func (m *MockSessionRepository) View(ctx context.Context, id uuid.UUID, fn func(*gaze.Session) error) error {
	args := m.Called(ctx, id, fn)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepository) EvictIdle(ctx context.Context, before time.Time) (int, error) {
	args := m.Called(ctx, before)
	return args.Int(0), args.Error(1)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewSessionRepository().WithClock(clock.Now)
	return NewService(repo, Config{Width: 700, Height: 500, Now: clock.Now}), clock
}

func TestService_StartSession(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService(t)

	snap, err := svc.StartSession(ctx, 0)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, snap.ID)
	assert.Equal(t, 700, snap.Width)
	assert.Equal(t, 500, snap.Height)
	assert.Equal(t, gaze.DefaultDotRadius, snap.DotRadius)
	assert.False(t, snap.HeatmapEnabled)
	assert.Equal(t, clock.now, snap.CreatedAt)

	snap, err = svc.StartSession(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, gaze.MaxDotRadius, snap.DotRadius)

	n, err := svc.ActiveSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestService_RecordAndRender(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService(t)

	snap, err := svc.StartSession(ctx, 15)
	require.NoError(t, err)

	// surface displayed at half size
	rect := gaze.SurfaceRect{Left: 10, Top: 20, Width: 350, Height: 250}
	point, frame, err := svc.RecordPoint(ctx, snap.ID, gaze.PointerEvent{ClientX: 60, ClientY: 70}, rect)
	require.NoError(t, err)
	assert.Equal(t, 100.0, point.X)
	assert.Equal(t, 100.0, point.Y)
	assert.Equal(t, clock.now.UnixMilli(), point.CapturedAtMillis)

	assert.Equal(t, 1, frame.PointCount)
	require.Len(t, frame.Ops, 2)
	assert.Equal(t, gaze.OpClear, frame.Ops[0].Kind)
	assert.Equal(t, gaze.OpDot, frame.Ops[1].Kind)
	assert.Equal(t, "rgba(244, 63, 94, 1)", frame.Ops[1].Fill)

	clock.now = clock.now.Add(5 * time.Second)
	frame, err = svc.Frame(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "rgba(244, 63, 94, 0.5)", frame.Ops[1].Fill)

	frame, err = svc.ToggleHeatmap(ctx, snap.ID)
	require.NoError(t, err)
	assert.True(t, frame.HeatmapEnabled)
	assert.Equal(t, gaze.OpGradient, frame.Ops[1].Kind)
	assert.Equal(t, 45.0, frame.Ops[1].Radius)

	frame, err = svc.SetDotRadius(ctx, snap.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, gaze.MinDotRadius, frame.DotRadius)
	assert.Equal(t, 15.0, frame.Ops[1].Radius)

	frame, err = svc.ClearPoints(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, frame.PointCount)
	assert.Len(t, frame.Ops, 1)
	assert.True(t, frame.HeatmapEnabled)
	assert.Equal(t, gaze.MinDotRadius, frame.DotRadius)
}

func TestService_SnapshotAndExport(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService(t)

	snap, err := svc.StartSession(ctx, 0)
	require.NoError(t, err)

	rect := gaze.SurfaceRect{Width: 700, Height: 500}
	_, _, err = svc.RecordPoint(ctx, snap.ID, gaze.PointerEvent{ClientX: 0, ClientY: 0}, rect)
	require.NoError(t, err)
	clock.now = clock.now.Add(time.Second)
	_, _, err = svc.RecordPoint(ctx, snap.ID, gaze.PointerEvent{ClientX: 30, ClientY: 40}, rect)
	require.NoError(t, err)

	got, err := svc.Snapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stats.PointCount)
	assert.Equal(t, 50.0, got.Stats.PathLength)
	assert.Equal(t, clock.now, got.LastActiveAt)

	export, err := svc.ExportPoints(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, export.SessionID)
	require.Len(t, export.Points, 2)
	assert.Equal(t, 30.0, export.Points[1].X)
}

func TestService_FramePNG(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	snap, err := svc.StartSession(ctx, 0)
	require.NoError(t, err)
	_, _, err = svc.RecordPoint(ctx, snap.ID, gaze.PointerEvent{ClientX: 350, ClientY: 250}, gaze.SurfaceRect{Width: 700, Height: 500})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.FramePNG(ctx, snap.ID, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 700, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
	_, _, _, a := img.At(350, 250).RGBA()
	assert.NotZero(t, a)
}

func TestService_UnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := uuid.New()

	_, err := svc.Snapshot(ctx, id)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	_, _, err = svc.RecordPoint(ctx, id, gaze.PointerEvent{}, gaze.SurfaceRect{})
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	_, err = svc.Frame(ctx, id)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.ErrorIs(t, svc.FramePNG(ctx, id, &bytes.Buffer{}), repository.ErrSessionNotFound)
	assert.ErrorIs(t, svc.EndSession(ctx, id), repository.ErrSessionNotFound)
}

func TestService_EndSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	snap, err := svc.StartSession(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(ctx, snap.ID))

	_, err = svc.Frame(ctx, snap.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := &MockSessionRepository{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*gaze.Session")).Return(assert.AnError)
	repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	repo.On("Count", mock.Anything).Return(0, assert.AnError)

	svc := NewService(repo, Config{})

	_, err := svc.StartSession(ctx, 0)
	assert.ErrorIs(t, err, assert.AnError)
	_, err = svc.ClearPoints(ctx, uuid.New())
	assert.ErrorIs(t, err, assert.AnError)
	_, err = svc.ActiveSessions(ctx)
	assert.ErrorIs(t, err, assert.AnError)

	repo.AssertExpectations(t)
}
