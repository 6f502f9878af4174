package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3Store(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket is required", func(t *testing.T) {
		_, err := NewS3Store(ctx, config.StorageConfig{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("presigns under the key prefix", func(t *testing.T) {
		s, err := NewS3Store(ctx, config.StorageConfig{
			Endpoint:        "http://localhost:9000",
			Bucket:          "fieldline-docs",
			AccessKeyID:     "minio",
			SecretAccessKey: "minio-secret",
			UsePathStyle:    true,
			KeyPrefix:       "/reports/",
		}, zaptest.NewLogger(t))
		require.NoError(t, err)

		u, expires, err := s.DownloadURL(ctx, "org-1/job-1.pdf")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, "http://localhost:9000/fieldline-docs/reports/org-1/job-1.pdf?"), u)
		assert.Contains(t, u, "X-Amz-Signature=")
		assert.False(t, expires.IsZero())

		_, _, err = s.DownloadURL(ctx, "")
		assert.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("http://localhost:8080")

	_, _, err := m.DownloadURL(ctx, "missing.pdf")
	assert.Error(t, err)

	require.NoError(t, m.Put(ctx, "org/job report.pdf", []byte("%PDF"), "application/pdf"))
	data, ct, ok := m.Get("org/job report.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF", string(data))
	assert.Equal(t, "application/pdf", ct)

	u, _, err := m.DownloadURL(ctx, "org/job report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/objects/org%2Fjob%20report.pdf", u)
}
