package accounting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatReference(t *testing.T) {
	d := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	prefix := ReferencePrefix("CBK", 7)

	assert.Equal(t, "CBK7", prefix)
	assert.Equal(t, "CBK7-20240105-0001", FormatReference(prefix, d, 1))
	assert.Equal(t, "CBK7-20240105-0042", FormatReference(prefix, d, 42))
	assert.Equal(t, "CBK7-20240105-12345", FormatReference(prefix, d, 12345))
}
