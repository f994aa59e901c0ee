package log

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerFallsBackToDefault(t *testing.T) {
	assert.Same(t, L, G(context.Background()))
}

func TestWithLogger(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithField("session", "abc")
	ctx := WithLogger(context.Background(), entry)
	assert.Same(t, entry, G(ctx))
}

func TestForTagsComponent(t *testing.T) {
	assert.Equal(t, "telnet", For("telnet").Data["component"])
}

func TestSetup(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	require.NoError(t, Setup("warn", false))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	require.NoError(t, Setup("warn", true))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	assert.Error(t, Setup("loud", false))
}
