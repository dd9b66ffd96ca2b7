package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIDMonotonic(t *testing.T) {
	prev := GenerateID()
	for i := 0; i < 1000; i++ {
		next := GenerateID()
		assert.Greater(t, next, prev)
		prev = next
	}
}
