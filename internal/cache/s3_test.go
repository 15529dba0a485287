package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/graphforge/forge/internal/errors"
)

func TestNewS3Store_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
	}{
		{"missing endpoint", S3Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{"missing credentials", S3Config{Endpoint: "localhost:9000", Bucket: "b"}},
		{"missing bucket", S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Store(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrValidation))
		})
	}
}

func TestS3Store_ObjectKey(t *testing.T) {
	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b", Prefix: "/team/cache/"})
	require.NoError(t, err)
	assert.Equal(t, "team/cache/abc/Core.framework/Core", s.objectKey("sha256:abc", "Core.framework", "Core"))

	s, err = NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"})
	require.NoError(t, err)
	assert.Equal(t, "abc/.complete", s.objectKey("sha256:abc", completeMarker))
}

func TestS3Store_ExistsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s, err := NewS3Store(S3Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "a",
		SecretKey: "s",
		Bucket:    "cache",
	})
	require.NoError(t, err)

	ok, err := s.Exists(context.Background(), "sha256:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}
