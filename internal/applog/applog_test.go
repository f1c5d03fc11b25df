package applog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithoutPathIsNop(t *testing.T) {
	logger, err := New("", true)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestNewWritesDebugWhenVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keyer.log")
	logger, err := New(path, true)
	require.NoError(t, err)
	logger.Debug("letter resolved", zap.String("letter", "K"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"letter":"K"`), string(data))
}

func TestNewDropsDebugByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyer.log")
	logger, err := New(path, false)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.DebugLevel))
	require.True(t, logger.Core().Enabled(zap.InfoLevel))
}
