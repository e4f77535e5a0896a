package ordernum

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNoPattern = regexp.MustCompile(`^SN\d{17}\d{3}$`)

func TestGenerate_Format(t *testing.T) {
	got := Generate()
	assert.Regexp(t, orderNoPattern, got)
}

func TestGenerateAt_TimestampEncoding(t *testing.T) {
	at := time.Date(2026, 2, 10, 9, 0, 0, 123*1e6, time.UTC)
	got := generateAt(at)

	require.Regexp(t, orderNoPattern, got)
	assert.Equal(t, "SN20260210090000123", got[:19])
}

func TestGenerate_ConsecutiveCallsDiffer(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		no := Generate()
		if _, dup := seen[no]; dup {
			t.Fatalf("duplicate order number generated: %s", no)
		}
		seen[no] = struct{}{}
		time.Sleep(2 * time.Millisecond)
	}
}
