package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/avkozlov/library-backend/internal/models"
)

// BookIndex keeps a searchable copy of book titles. Indexing is best-effort:
// the database stays the source of truth.
type BookIndex struct {
	Client *elasticsearch.Client
	Index  string
}

type bookDoc struct {
	TitleRus    string `json:"title_rus"`
	TitleOrigin string `json:"title_origin,omitempty"`
}

func (b *BookIndex) IndexBook(ctx context.Context, book *models.Book) error {
	body, err := json.Marshal(bookDoc{
		TitleRus:    book.TitleRus,
		TitleOrigin: book.TitleOrigin,
	})
	if err != nil {
		return err
	}

	res, err := b.Client.Index(
		b.Index,
		bytes.NewReader(body),
		b.Client.Index.WithDocumentID(strconv.FormatUint(uint64(book.ID), 10)),
		b.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index book %d: %s", book.ID, res.Status())
	}
	return nil
}

func (b *BookIndex) DeleteBook(ctx context.Context, bookID uint) error {
	res, err := b.Client.Delete(
		b.Index,
		strconv.FormatUint(uint64(bookID), 10),
		b.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	// 404 just means the book never made it into the index.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete book %d: %s", bookID, res.Status())
	}
	return nil
}

// SearchBooks returns the matching book IDs ranked by relevance.
func (b *BookIndex) SearchBooks(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title_rus", "title_origin"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return 0, nil, err
	}

	res, err := b.Client.Search(
		b.Client.Search.WithContext(ctx),
		b.Client.Search.WithIndex(b.Index),
		b.Client.Search.WithBody(&buf),
		b.Client.Search.WithFrom(from),
		b.Client.Search.WithSize(size),
		b.Client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var envelope struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return 0, nil, err
	}

	ids := make([]uint, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return envelope.Hits.Total.Value, ids, nil
}
