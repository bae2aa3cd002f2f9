package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.WriteString("flag", "true"))
	value, err := s.ReadString("flag")
	require.NoError(t, err)
	assert.Equal(t, "true", value)
}

func TestFileStoreMissingKeyReadsEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	value, err := s.ReadString("never-written")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestFileStoreOverwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.WriteString("flag", "first"))
	require.NoError(t, s.WriteString("flag", "second"))
	value, err := s.ReadString("flag")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}
