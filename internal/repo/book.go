package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
)

func (r *GormRepo) CreateBook(ctx context.Context, b *models.Book) (*models.Book, error) {
	if err := r.DB.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (r *GormRepo) GetBookByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.DB.WithContext(ctx).
		Preload("Authors").Preload("Genres").Preload("Instances").
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *GormRepo) GetBooksByTitle(ctx context.Context, title string) ([]models.Book, error) {
	var books []models.Book
	err := r.DB.WithContext(ctx).
		Preload("Authors").Preload("Genres").
		Where("title_rus LIKE ? OR title_origin LIKE ?", "%"+title+"%", "%"+title+"%").
		Order("title_rus ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// GetBooksByIDs loads books preserving the order of ids (used by the search
// index, which ranks by relevance).
func (r *GormRepo) GetBooksByIDs(ctx context.Context, ids []uint) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}

	var books []models.Book
	err := r.DB.WithContext(ctx).
		Preload("Authors").Preload("Genres").
		Where("id IN ?", ids).
		Find(&books).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	ordered := make([]models.Book, 0, len(books))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

// GetBookByTitleAndAuthor detects duplicates before creating a new book.
func (r *GormRepo) GetBookByTitleAndAuthor(ctx context.Context, title, authorSurname string) (*models.Book, error) {
	var book models.Book
	err := r.DB.WithContext(ctx).
		Joins("JOIN author_book_association aba ON aba.book_id = books.id").
		Joins("JOIN authors ON authors.id = aba.author_id").
		Where("books.title_rus = ? AND authors.surname = ?", title, authorSurname).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *GormRepo) GetAllBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Book
	err := r.DB.WithContext(ctx).Model(&models.Book{}).
		Preload("Authors").Preload("Genres").
		Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SaveBook(ctx context.Context, b *models.Book) (*models.Book, error) {
	if err := r.DB.WithContext(ctx).Save(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (r *GormRepo) AppendBookAuthors(ctx context.Context, b *models.Book, authors []models.Author) error {
	return r.DB.WithContext(ctx).Model(b).Association("Authors").Append(authors)
}

func (r *GormRepo) AppendBookGenres(ctx context.Context, b *models.Book, genres []models.Genre) error {
	return r.DB.WithContext(ctx).Model(b).Association("Genres").Append(genres)
}

func (r *GormRepo) DeleteBook(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Select("Instances").Delete(&models.Book{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
