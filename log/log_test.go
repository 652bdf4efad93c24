package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, WarnLevel, ParseLevel("warning"))
	require.Equal(t, InfoLevel, ParseLevel("nonsense"))
}

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	l.SetLevel(WarnLevel)
	require.Equal(t, WarnLevel, l.GetLevel())

	l.Info("dropped %d", 1)
	require.Zero(t, buf.Len())

	l.WithField("selector", "main").Warn("kept %d", 2)
	require.Contains(t, buf.String(), "kept 2")
	require.Contains(t, buf.String(), "selector=main")
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	_ = l.WithField("a", 1)
	l.Info("plain")
	require.NotContains(t, buf.String(), "a=1")
}

func TestDiscard(t *testing.T) {
	Discard.WithField("k", "v").Error("nothing %s", "happens")
	require.Equal(t, ErrorLevel, Discard.GetLevel())
}
