package storage

import (
	"net/url"
	"path"
	"strings"

	"github.com/h2non/filetype"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

// DetectMediaKind определяет тип медиа по расширению ссылки.
// Сами файлы загружаются внешним хранилищем, здесь только ссылка.
func DetectMediaKind(mediaURL string) (valueobject.MediaKind, error) {
	ext := extension(mediaURL)
	if ext == "" {
		return "", apperror.Validation("не удалось определить тип медиа: у ссылки нет расширения")
	}

	kind := filetype.GetType(ext)
	if kind == filetype.Unknown {
		return "", apperror.Validation("неподдерживаемый тип медиа: ." + ext)
	}

	switch kind.MIME.Type {
	case "image":
		return valueobject.MediaKindImage, nil
	case "video":
		return valueobject.MediaKindVideo, nil
	case "audio":
		return valueobject.MediaKindAudio, nil
	default:
		return "", apperror.Validation("в портфолио допускаются только изображения, видео и аудио")
	}
}

func extension(mediaURL string) string {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}
