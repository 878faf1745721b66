package helpers

import (
	"bytes"
	"fmt"
	"testing"

	"stock-trend/src/logger"

	"github.com/stretchr/testify/assert"
)

func TestTrendErrorUnwrap(t *testing.T) {
	err := NewModelError("fit forest", ErrEmptyTrainingSet)

	assert.ErrorIs(t, err, ErrEmptyTrainingSet)
	assert.Equal(t, "fit forest: training partition is empty", err.Error())

	var me *ModelError
	assert.ErrorAs(t, err, &me)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(fmt.Errorf("features: %w", ErrInsufficientData)))
	assert.True(t, IsClientError(NewValidationError("ticker", nil)))
	assert.False(t, IsClientError(NewDataSourceError("yahoo", fmt.Errorf("dial tcp: refused"))))
}

func TestErrorHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	h := NewErrorHandler(logger.NewLoggerWithWriter(&buf, "DEBUG", "test"))

	h.Handle(nil, "noop")
	assert.Empty(t, buf.String())

	h.Handle(ErrInsufficientData, "features")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	h.Handle(fmt.Errorf("disk on fire"), "cache")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestProxyRotationAndFormatting(t *testing.T) {
	log := logger.NewLoggerWithWriter(&bytes.Buffer{}, "INFO", "test")
	pm := NewProxyManager([]string{"10.0.0.1:8080", "", "https://10.0.0.2:443"}, "", log)

	assert.True(t, pm.HasProxies())
	p, err := pm.GetCurrentProxy()
	assert.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:8080", p)

	pm.RotateProxy()
	p, _ = pm.GetCurrentProxy()
	assert.Equal(t, "https://10.0.0.2:443", p)

	pm.RotateProxy()
	p, _ = pm.GetCurrentProxy()
	assert.Equal(t, "http://10.0.0.1:8080", p)
}

func TestPinnedUserAgent(t *testing.T) {
	log := logger.NewLoggerWithWriter(&bytes.Buffer{}, "INFO", "test")
	pm := NewProxyManager(nil, "trend-bot/1.0", log)

	assert.False(t, pm.HasProxies())
	assert.Equal(t, "trend-bot/1.0", pm.GetUserAgent())
}
