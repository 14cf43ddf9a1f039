package httpserver

import (
	"book-discovery-service/internal/domain"
)

// coverURL is exposed to templates as {{coverURL .ID "S"}}.
func coverURL(id int, size string) string {
	return domain.CoverURL(id, domain.CoverSize(size))
}
