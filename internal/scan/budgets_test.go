package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultBudgetsValidate(t *testing.T) {
	b := DefaultBudgets()
	assert.NoError(t, b.Validate())
	assert.Equal(t, 5, b.SQLiPayloads)
	assert.Equal(t, 3, b.XSSPayloads)
	assert.Equal(t, 15, b.SensitiveDataURLs)
	assert.Equal(t, 15, b.RateLimitBurst)
	assert.Equal(t, 10, b.RateLimitWorkers)
}

func TestValidateRejectsZero(t *testing.T) {
	b := DefaultBudgets()
	b.SQLiPayloads = 0
	assert.Error(t, b.Validate())
}

func TestTruncateStrings(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"a", "b"}, TruncateStrings(items, 2))
	assert.Equal(t, items, TruncateStrings(items, 10))
}
