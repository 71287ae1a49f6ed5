package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("%PDF-1.3"), "payslips/t1/p1/u1.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "payslips/t1/p1/u1.pdf", key)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../escape.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	key, err := s.Upload(ctx, strings.NewReader("abc"), "/a/b.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "a/b.pdf", key)
	assert.Equal(t, 1, s.Len())

	rc, err := s.Download(ctx, "a/b.pdf")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "abc", string(data))

	_, err = s.Download(ctx, "missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}
