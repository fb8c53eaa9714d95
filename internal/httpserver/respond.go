package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/avkozlov/library-backend/internal/service"
)

func listResponse[T any](items []T, page, limit, offset int, total int64) map[string]any {
	return map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	}
}

// formFile extracts an optional multipart file from the request. A missing
// file is not an error; the caller decides whether the upload is required.
func formFile(c echo.Context, field string) (*service.FileUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &service.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      src,
		Size:        fh.Size,
	}, nil
}
