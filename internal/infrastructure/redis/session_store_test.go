package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionKeys(t *testing.T) {
	assert.Equal(t, "session:acc-1:jti-9", sessionKey("acc-1", "jti-9"))
	assert.Equal(t, "sessions:acc-1", accountSetKey("acc-1"))
}
