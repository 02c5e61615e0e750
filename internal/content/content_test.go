package content

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/internal/storage"
	"github.com/RMahshie/medvis/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

// MockContentRepository implements repository.ContentRepository for testing
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) GetPage(ctx context.Context, page string) (models.PageContent, error) {
	args := m.Called(ctx, page)
	pc, _ := args.Get(0).(models.PageContent)
	return pc, args.Error(1)
}

var testFS = fstest.MapFS{
	"lvef.json":         {Data: []byte(`{"title":"LVEF","form":{"heading":"Calculator"},"images":{"gradCam":"/assets/gradcam.png"}}`)},
	"broken.json":       {Data: []byte(`{"title":`)},
	"list.json":         {Data: []byte(`["not", "an", "object"]`)},
	"main_page.json":    {Data: []byte(`{"siteName":"Hub"}`)},
	"attention.json":    {Data: []byte(`{"subtitle":"Attention"}`)},
	"openmirai.json":    {Data: []byte(`{"title":"OpenMirai"}`)},
	"limayutthaya.json": {Data: []byte(`{"title":"Lim Ayutthaya"}`)},
}

func TestFSRepository_GetPage(t *testing.T) {
	repo := NewFSRepository(testFS)
	ctx := context.Background()

	pc, err := repo.GetPage(ctx, "lvef")
	require.NoError(t, err)
	assert.Equal(t, "LVEF", pc.String("title"))
	assert.Equal(t, "Calculator", pc.String("form.heading"))
	assert.Equal(t, "", pc.String("form.missing"))
	assert.Equal(t, map[string]string{"gradCam": "/assets/gradcam.png"}, pc.Images())
}

func TestFSRepository_Errors(t *testing.T) {
	repo := NewFSRepository(testFS)
	ctx := context.Background()

	_, err := repo.GetPage(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrPageNotFound)

	_, err = repo.GetPage(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, repository.ErrPageNotFound)

	_, err = repo.GetPage(ctx, "broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, repository.ErrPageNotFound))

	_, err = repo.GetPage(ctx, "list")
	assert.Error(t, err)
}

func TestS3Repository_GetPage(t *testing.T) {
	ctx := context.Background()
	mockS3 := &MockS3Service{}
	mockS3.On("DownloadFile", mock.Anything, "content/lvef.json").Return([]byte(`{"title":"LVEF"}`), nil)
	mockS3.On("DownloadFile", mock.Anything, "content/nope.json").Return(nil, storage.ErrObjectNotFound)
	mockS3.On("DownloadFile", mock.Anything, "content/attention.json").Return(nil, assert.AnError)

	repo := NewS3Repository(mockS3, "content/")

	pc, err := repo.GetPage(ctx, "lvef")
	require.NoError(t, err)
	assert.Equal(t, "LVEF", pc.String("title"))

	_, err = repo.GetPage(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrPageNotFound)

	_, err = repo.GetPage(ctx, "attention")
	assert.ErrorIs(t, err, assert.AnError)

	mockS3.AssertExpectations(t)
}

func TestCachedRepository(t *testing.T) {
	ctx := context.Background()
	next := &MockContentRepository{}
	next.On("GetPage", mock.Anything, "lvef").Return(models.PageContent{"title": "LVEF"}, nil).Twice()
	next.On("GetPage", mock.Anything, "missing").Return(nil, repository.ErrPageNotFound).Twice()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCachedRepository(next, time.Minute)
	cache.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		pc, err := cache.GetPage(ctx, "lvef")
		require.NoError(t, err)
		assert.Equal(t, "LVEF", pc.String("title"))
	}

	now = now.Add(2 * time.Minute)
	_, err := cache.GetPage(ctx, "lvef")
	require.NoError(t, err)

	// errors are not cached
	_, err = cache.GetPage(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrPageNotFound)
	_, err = cache.GetPage(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrPageNotFound)

	next.AssertExpectations(t)
}

func TestCachedRepository_Invalidate(t *testing.T) {
	ctx := context.Background()
	next := &MockContentRepository{}
	next.On("GetPage", mock.Anything, "lvef").Return(models.PageContent{"title": "LVEF"}, nil).Twice()

	cache := NewCachedRepository(next, time.Hour)
	_, err := cache.GetPage(ctx, "lvef")
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.GetPage(ctx, "lvef")
	require.NoError(t, err)

	next.AssertExpectations(t)
}

func TestBasePathResolver(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		base, path, want string
	}{
		{"/demo-website", "/assets/images/logo.png", "/demo-website/assets/images/logo.png"},
		{"/demo-website/", "assets/x.png", "/demo-website/assets/x.png"},
		{"", "/assets/x.png", "/assets/x.png"},
		{"/demo-website", "https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
	}
	for _, tt := range tests {
		got, err := BasePathResolver{BasePath: tt.base}.Resolve(ctx, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestS3Resolver(t *testing.T) {
	ctx := context.Background()
	mockS3 := &MockS3Service{}
	mockS3.On("GenerateDownloadURL", mock.Anything, "assets/images/logo.png").Return("https://bucket/signed", nil)
	mockS3.On("GenerateDownloadURL", mock.Anything, "assets/broken.png").Return("", assert.AnError)

	resolved := ResolveAll(ctx, S3Resolver{S3: mockS3}, map[string]string{
		"logo":   "/assets/images/logo.png",
		"broken": "/assets/broken.png",
		"remote": "https://example.com/a.png",
	})

	assert.Equal(t, map[string]string{
		"logo":   "https://bucket/signed",
		"broken": "/assets/broken.png",
		"remote": "https://example.com/a.png",
	}, resolved)
	mockS3.AssertExpectations(t)
}

// recordingSink collects seeded pages
type recordingSink struct {
	pages map[string][]byte
	fail  string
}

func (s *recordingSink) PutPage(ctx context.Context, page string, body []byte) error {
	if page == s.fail {
		return assert.AnError
	}
	s.pages[page] = body
	return nil
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{pages: map[string][]byte{}}

	n, err := Seed(ctx, testFS, sink)
	require.NoError(t, err)
	assert.Equal(t, len(Pages), n)
	assert.Len(t, sink.pages, len(Pages))

	failing := &recordingSink{pages: map[string][]byte{}, fail: PageAttention}
	_, err = Seed(ctx, testFS, failing)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestS3Sink(t *testing.T) {
	ctx := context.Background()
	mockS3 := &MockS3Service{}
	mockS3.On("UploadFile", mock.Anything, "site/lvef.json", "application/json", []byte(`{}`)).Return(nil)

	require.NoError(t, S3Sink{S3: mockS3, Prefix: "site/"}.PutPage(ctx, "lvef", []byte(`{}`)))
	mockS3.AssertExpectations(t)
}
