package ports

import (
	"context"
	"io"
)

// AvatarStorage almacena imágenes de perfil y devuelve su URL pública.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, accountID, filename, contentType string, r io.Reader, size int64) (string, error)
}
