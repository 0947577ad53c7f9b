package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Level(t *testing.T) {
	l := New("prod", "debug")
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())

	l = New("prod", "nope")
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}
