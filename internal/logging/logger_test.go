package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToInfo(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestNew_ParsesLevel(t *testing.T) {
	logger, err := New(Options{Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "groundwork.log")
	logger, err := New(Options{File: path})
	require.NoError(t, err)

	logger.WithField("project_id", "p-1").Info("project initialized")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "project initialized")
	assert.Contains(t, string(data), "project_id=p-1")
}

func TestFormatter_Line(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&Formatter{System: "api"})

	logger.WithTime(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)).WithFields(logrus.Fields{
		"status": 422,
		"path":   "/api/tasks/x",
		"note":   "two words",
	}).WithError(errors.New("bad input")).Warn("request failed")

	assert.Equal(t,
		`2026-03-02T08:00:00Z WARNING [api] request failed error="bad input" note="two words" path=/api/tasks/x status=422`+"\n",
		buf.String())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Info("nothing") })
}
