package models

import "time"

const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
)

const (
	BookStatusAvailable = "available"
	BookStatusLoaned    = "loaned"
	BookStatusLost      = "lost"
)

const (
	OrderStatusActive = "active"
	OrderStatusClosed = "closed"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Surname      string    `gorm:"not null"                 json:"surname"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	Role         string    `gorm:"not null;default:librarian" json:"role"`
	IsBlocked    bool      `gorm:"default:false"            json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Author struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Surname     string    `gorm:"not null"                 json:"surname"`
	Nationality string    `gorm:"not null"                 json:"nationality"`
	PhotoS3URL  string    `json:"photo_s3_url,omitempty"`
	Books       []Book    `gorm:"many2many:author_book_association" json:"books,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Genre struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Books []Book `gorm:"many2many:genre_book_association" json:"books,omitempty"`
}

type Book struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TitleRus         string         `gorm:"not null"                 json:"title_rus"`
	TitleOrigin      string         `json:"title_origin,omitempty"`
	Quantity         int            `gorm:"not null;default:0"       json:"quantity"`
	AvailableForLoan int            `gorm:"not null;default:0"       json:"available_for_loan"`
	CreatedBy        string         `json:"created_by,omitempty"`
	UpdatedBy        string         `json:"updated_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Authors          []Author       `gorm:"many2many:author_book_association" json:"authors,omitempty"`
	Genres           []Genre        `gorm:"many2many:genre_book_association"  json:"genres,omitempty"`
	Instances        []BookInstance `gorm:"foreignKey:BookID"        json:"instances,omitempty"`
}

type BookInstance struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID      uint      `gorm:"index;not null"           json:"book_id"`
	ImprintYear int       `json:"imprint_year,omitempty"`
	Pages       int       `json:"pages,omitempty"`
	CoverS3URL  string    `json:"cover_s3_url,omitempty"`
	Value       float64   `gorm:"not null"                 json:"value"`
	PricePerDay float64   `gorm:"not null"                 json:"price_per_day"`
	Status      string    `gorm:"not null;default:available" json:"status"`
	CreatedBy   string    `json:"created_by,omitempty"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Book        *Book     `gorm:"foreignKey:BookID"        json:"book,omitempty"`
	Orders      []Order   `gorm:"many2many:order_book_instance_association" json:"-"`
}

type Reader struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	FathersName string    `gorm:"not null"                 json:"fathers_name"`
	Surname     string    `gorm:"not null"                 json:"surname"`
	PassportNr  string    `gorm:"unique"                   json:"passport_nr"`
	DateOfBirth time.Time `gorm:"not null"                 json:"date_of_birth"`
	Email       string    `gorm:"unique;not null"          json:"email"`
	Address     string    `gorm:"not null"                 json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	ID                uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ReaderID          uint           `gorm:"index;not null"           json:"reader_id"`
	OrderDate         time.Time      `gorm:"not null"                 json:"order_date"`
	Status            string         `gorm:"not null;default:active"  json:"status"`
	PlannedReturnDate time.Time      `gorm:"not null"                 json:"planned_return_date"`
	FactReturnDate    *time.Time     `json:"fact_return_date,omitempty"`
	OverdueCost       float64        `gorm:"not null;default:0"       json:"overdue_cost"`
	DamagedBooks      int            `gorm:"not null;default:0"       json:"damaged_books"`
	DamageCost        float64        `gorm:"not null;default:0"       json:"damage_cost"`
	LostBooks         int            `gorm:"not null;default:0"       json:"lost_books"`
	LostCost          float64        `gorm:"not null;default:0"       json:"lost_cost"`
	TotalCost         float64        `gorm:"not null;default:0"       json:"total_cost"`
	BookInstances     []BookInstance `gorm:"many2many:order_book_instance_association" json:"book_instances,omitempty"`
	Reader            *Reader        `gorm:"foreignKey:ReaderID"      json:"reader,omitempty"`
}

type Loan struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReaderID  uint      `gorm:"not null;uniqueIndex:unique_reader_book" json:"reader_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:unique_reader_book" json:"book_id"`
	IssueDate time.Time `gorm:"not null"                 json:"issue_date"`
	DueDate   time.Time `gorm:"not null"                 json:"due_date"`
	IsActive  bool      `gorm:"default:true"             json:"is_active"`
}

// All lists every entity for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Author{}, &Genre{}, &Book{}, &BookInstance{},
		&Reader{}, &Order{}, &Loan{},
	}
}
