package filetype

import (
	"errors"
	"mime"

	"github.com/gabriel-vasile/mimetype"
)

// headerReadLimit : сколько байт от начала файла участвует в определении
// типа. Магические байты всех поддерживаемых форматов лежат в этом префиксе.
const headerReadLimit = 3072

// ErrUnsupportedType возвращается, когда определённый по содержимому тип не
// входит в allow-list. Сам определённый тип наружу не сообщается.
var ErrUnsupportedType = errors.New("тип файла не разрешён")

// Detector определяет MIME-тип файла по его содержимому.
// Имя файла, расширение и Content-Type клиента в решении не участвуют:
// подмена расширения и есть класс атак, который закрывает детектор.
type Detector struct {
	allowed []string
}

func NewDetector(allowedMimeTypes []string) *Detector {
	return &Detector{allowed: allowedMimeTypes}
}

// Classify : определяет канонический MIME-тип по магическим байтам начала
// файла и сверяет его с allow-list. Функция чистая, без побочных эффектов;
// вызывается до записи хоть одного байта в постоянное хранилище.
func (d *Detector) Classify(data []byte) (string, error) {
	if len(data) > headerReadLimit {
		data = data[:headerReadLimit]
	}

	mtype := mimetype.Detect(data)

	detected := mtype.String()
	if media, _, err := mime.ParseMediaType(detected); err == nil {
		detected = media
	}

	for _, allowed := range d.allowed {
		if mtype.Is(allowed) {
			return detected, nil
		}
	}

	return "", ErrUnsupportedType
}
