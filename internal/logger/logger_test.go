package logger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/readwithcard/internal/logger"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Info("hidden")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "WARN")
}

func TestLogger_FieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("review").
		WithFields(map[string]any{"zeta": 1, "alpha": "a"}).
		WithError(errors.New("boom"))

	log.Info("swipe")

	out := buf.String()
	assert.Contains(t, out, "[review]")
	assert.Contains(t, out, "swipe alpha=a error=boom zeta=1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("warning"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("ERROR"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
}

func TestContextRoundTrip(t *testing.T) {
	log := logger.New(logger.WithPrefix("ctx"))
	ctx := logger.NewContext(context.Background(), log)

	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
