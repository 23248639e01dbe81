package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			log, err := New(format, "warn")
			require.NoError(t, err)
			assert.False(t, log.Core().Enabled(zap.InfoLevel))
			assert.True(t, log.Core().Enabled(zap.ErrorLevel))
		})
	}
}

func TestNew_Rejects(t *testing.T) {
	_, err := New("xml", "info")
	assert.ErrorContains(t, err, "log format")

	_, err = New("json", "loud")
	assert.ErrorContains(t, err, "log level")
}
