package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk, err := NewLocalDisk(root, "http://localhost/storage/")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "avatars/a.png", bytes.NewReader([]byte("one")), 3, "image/png"))
	got, err := os.ReadFile(filepath.Join(root, "avatars", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))

	require.NoError(t, disk.Put(ctx, "avatars/a.png", bytes.NewReader([]byte("two")), 3, "image/png"))
	got, err = os.ReadFile(filepath.Join(root, "avatars", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	assert.Equal(t, "http://localhost/storage/avatars/a.png", disk.URL("avatars/a.png"))

	require.NoError(t, disk.Delete(ctx, "avatars/a.png"))
	_, err = os.Stat(filepath.Join(root, "avatars", "a.png"))
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, disk.Delete(ctx, "avatars/a.png"), "deleting a missing file is fine")
}

func TestLocalDisk_KeysStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	disk, err := NewLocalDisk(filepath.Join(root, "public"), "http://x")
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "../../escape.txt", bytes.NewReader([]byte("x")), 1, "text/plain"))
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "public", "escape.txt"))
	assert.NoError(t, err)

	assert.Error(t, disk.Put(ctx, "", bytes.NewReader(nil), 0, ""))
}

type fakeObjects struct {
	puts    map[string][]byte
	deletes []string
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.puts[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Disk(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{puts: map[string][]byte{}}
	disk := NewS3DiskWithClient(objects, "avatars-bucket", "https://cdn.example.com/")

	require.NoError(t, disk.Put(ctx, "avatars/a.png", bytes.NewReader([]byte("img")), 3, "image/png"))
	assert.Equal(t, []byte("img"), objects.puts["avatars/a.png"])

	require.NoError(t, disk.Delete(ctx, "avatars/a.png"))
	assert.Equal(t, []string{"avatars/a.png"}, objects.deletes)
	assert.Equal(t, "https://cdn.example.com/avatars/a.png", disk.URL("avatars/a.png"))

	objects.err = errors.New("boom")
	assert.Error(t, disk.Put(ctx, "k", bytes.NewReader(nil), 0, ""))
	assert.Error(t, disk.Delete(ctx, "k"))
}
