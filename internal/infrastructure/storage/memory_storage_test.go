package storage

import (
	"context"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	data := []byte("hello")
	require.NoError(t, m.Put(ctx, "k", data, "text/plain"))
	data[0] = 'j'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got), "stored bytes must be copied")
	assert.Equal(t, "text/plain", m.ContentType("k"))
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Error(t, m.Put(ctx, "", nil, ""))
}
