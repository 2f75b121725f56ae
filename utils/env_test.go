package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go syntax", "15m", 15 * time.Minute},
		{"bare seconds", "90", 90 * time.Second},
		{"blank uses default", "  ", time.Hour},
		{"garbage uses default", "soon", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KEEPNOTES_TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, GetEnvAsDuration("KEEPNOTES_TEST_DURATION", time.Hour))
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("KEEPNOTES_TEST_LIST", " http://a.test , ,http://b.test")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetEnvAsList("KEEPNOTES_TEST_LIST", nil))

	t.Setenv("KEEPNOTES_TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvAsList("KEEPNOTES_TEST_LIST", []string{"x"}))
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("KEEPNOTES_TEST_INT", "twelve")
	assert.Equal(t, 12, GetEnvAsInt("KEEPNOTES_TEST_INT", 12))

	t.Setenv("KEEPNOTES_TEST_INT", "4")
	assert.Equal(t, 4, GetEnvAsInt("KEEPNOTES_TEST_INT", 12))
}
