package storage_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/storefront-api/internal/infrastructure/storage"
)

func TestAvatarKey(t *testing.T) {
	k1 := storage.AvatarKey("acc-1", "Foto.PNG")
	k2 := storage.AvatarKey("acc-1", "Foto.PNG")

	assert.True(t, strings.HasPrefix(k1, "avatars/acc-1/"))
	assert.True(t, strings.HasSuffix(k1, ".png"))
	assert.NotEqual(t, k1, k2)
}
