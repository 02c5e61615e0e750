package content

import (
	"context"
	"net/http"
	"testing"

	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/internal/storage"
	"github.com/RMahshie/medvis/internal/web"
	"github.com/google/uuid"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

// startMinio runs a MinIO container with an empty bucket and returns an
// S3Service pointed at it
func startMinio(t *testing.T) storage.S3Service {
	t.Helper()
	ctx := context.Background()

	container, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(container.Username, container.Password, ""),
		Secure: false,
	})
	require.NoError(t, err)

	bucket := "medvis-test-" + uuid.New().String()[:8]
	require.NoError(t, client.MakeBucket(ctx, bucket, miniogo.MakeBucketOptions{}))

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    bucket,
		Endpoint:  endpoint,
		AccessKey: container.Username,
		SecretKey: container.Password,
	})
	require.NoError(t, err)
	return s3Service
}

func TestS3Content_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	s3Service := startMinio(t)

	n, err := Seed(ctx, web.Content(), S3Sink{S3: s3Service, Prefix: "content/"})
	require.NoError(t, err)
	assert.Equal(t, len(Pages), n)

	repo := NewS3Repository(s3Service, "content/")
	for _, page := range Pages {
		pc, err := repo.GetPage(ctx, page)
		require.NoError(t, err, page)
		assert.NotEmpty(t, pc)
	}

	_, err = repo.GetPage(ctx, "unknown_page")
	assert.ErrorIs(t, err, repository.ErrPageNotFound)

	url, err := S3Resolver{S3: s3Service}.Resolve(ctx, "/content/lvef.json")
	require.NoError(t, err)
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
