package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPassNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	re := regexp.MustCompile(`^PASS-(\d+)-(\d{1,3})$`)

	for i := 0; i < 50; i++ {
		n := NewPassNumber(now)
		m := re.FindStringSubmatch(n)
		require.NotNil(t, m, "unexpected pass number %q", n)

		millis, err := strconv.ParseInt(m[1], 10, 64)
		require.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), millis)

		suffix, err := strconv.Atoi(m[2])
		require.NoError(t, err)
		assert.Less(t, suffix, 1000)
	}
}

func TestNewPassNumberPrefix(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewPassNumber(time.Now()), "PASS-"))
}
