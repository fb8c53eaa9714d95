package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	buckets map[string]bool
	objects map[string][]byte
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (f *fakeAPI) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+key] = data
	return minio.UploadInfo{Bucket: bucket, Key: key}, nil
}

func (f *fakeAPI) RemoveObject(_ context.Context, bucket, key string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, bucket+"/"+key)
	return nil
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()

	api := newFakeAPI()
	c, err := newClientWithAPI(context.Background(), api, Config{
		Bucket:    "library",
		PublicURL: "http://minio.local:9000/",
	})
	require.NoError(t, err)
	return c, api
}

func TestNewClient_CreatesMissingBucket(t *testing.T) {
	t.Parallel()

	_, api := newTestClient(t)
	assert.True(t, api.buckets["library"])
}

func TestClient_Upload_ReturnsPublicURLWithExtension(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t)

	url, err := c.Upload(context.Background(), "cover.jpg", "image/jpeg", strings.NewReader("jpegdata"), 8)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://minio.local:9000/library/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))
	assert.NotContains(t, url, "cover.jpg", "object key must not reuse the client filename")
	assert.Len(t, api.objects, 1)
}

func TestClient_Delete_RemovesStoredObject(t *testing.T) {
	t.Parallel()

	c, api := newTestClient(t)

	url, err := c.Upload(context.Background(), "photo.png", "image/png", strings.NewReader("pngdata"), 7)
	require.NoError(t, err)
	require.Len(t, api.objects, 1)

	require.NoError(t, c.Delete(context.Background(), url))
	assert.Empty(t, api.objects)
}
