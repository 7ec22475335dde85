package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNullIfEmpty(t *testing.T) {
	assert.False(t, nullIfEmpty("").Valid)

	ws := nullIfEmpty("  ")
	assert.True(t, ws.Valid)
	assert.Equal(t, "  ", ws.String)
}

func TestCeilMicro(t *testing.T) {
	exact := time.Date(2024, 1, 2, 3, 4, 5, 123000, time.UTC)
	assert.Equal(t, exact, ceilMicro(exact))

	sub := time.Date(2024, 1, 2, 3, 4, 5, 123001, time.UTC)
	got := ceilMicro(sub)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 124000, time.UTC), got)
	assert.False(t, got.Before(sub))

	local := sub.In(time.FixedZone("CST", -6*3600))
	assert.Equal(t, time.UTC, ceilMicro(local).Location())
}
