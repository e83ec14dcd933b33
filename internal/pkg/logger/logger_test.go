package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_ReleaseModeWritesToFile(t *testing.T) {
	dir := t.TempDir()

	l := New("release", Options{Dir: dir, Filename: "test.log"})
	l.Info("leg_loaded", zap.String("leg_id", "abc"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"leg_loaded"`)
	assert.Contains(t, string(data), `"leg_id":"abc"`)
}

func TestZ_FallsBackWhenNotInitialised(t *testing.T) {
	prev := L
	L = nil
	t.Cleanup(func() { L = prev })

	assert.NotNil(t, Z())
	assert.NotNil(t, S())
}

func TestPositiveOr(t *testing.T) {
	assert.Equal(t, 5, positiveOr(5, 10))
	assert.Equal(t, 10, positiveOr(0, 10))
	assert.Equal(t, 10, positiveOr(-1, 10))
}
