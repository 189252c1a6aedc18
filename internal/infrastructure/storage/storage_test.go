package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"storefront-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)
	ctx := context.Background()

	f, err := s.Save(ctx, "designs", "a.png", strings.NewReader("pngdata"))
	require.NoError(t, err)
	assert.Equal(t, "designs/a.png", f.Filename)
	assert.Equal(t, "http://localhost:8080/uploads/designs/a.png", f.URL)
	assert.Equal(t, int64(7), f.Size)

	rc, err := s.Open(f.Filename)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "pngdata", string(data))

	require.NoError(t, s.Delete(ctx, f.Filename))
	assert.True(t, errors.Is(s.Delete(ctx, f.Filename), domain.ErrNotFound))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "..", "evil.png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	err = s.Delete(context.Background(), "../../etc/passwd")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
