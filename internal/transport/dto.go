package transport

import "time"

type SignupRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordResponse struct {
	ResetToken string `json:"reset_token"`
	Message    string `json:"message"`
}

type ResetPasswordRequest struct {
	ResetToken         string `json:"reset_token" form:"reset_token"`
	NewPassword        string `json:"new_password" form:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password" form:"confirm_new_password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type UserAdminUpdateRequest struct {
	UserUpdateRequest
	Role      *string `json:"role"`
	IsBlocked *bool   `json:"is_blocked"`
}

type AuthorCreateRequest struct {
	Name        string `json:"name" form:"name"`
	Surname     string `json:"surname" form:"surname"`
	Nationality string `json:"nationality" form:"nationality"`
}

type AuthorUpdateRequest struct {
	Name        *string `json:"name" form:"name"`
	Surname     *string `json:"surname" form:"surname"`
	Nationality *string `json:"nationality" form:"nationality"`
}

type GenreCreateRequest struct {
	Name string `json:"name"`
}

type GenreUpdateRequest struct {
	Name *string `json:"name"`
}

type BookCreateRequest struct {
	TitleRus           string `json:"title_rus" form:"title_rus"`
	TitleOrigin        string `json:"title_origin" form:"title_origin"`
	Quantity           int    `json:"quantity" form:"quantity"`
	AvailableForLoan   int    `json:"available_for_loan" form:"available_for_loan"`
	AuthorsName        string `json:"authors_name" form:"authors_name"`
	AuthorsSurname     string `json:"authors_surname" form:"authors_surname"`
	AuthorsNationality string `json:"authors_nationality" form:"authors_nationality"`
	GenreName          string `json:"genre_name" form:"genre_name"`
}

type BookUpdateRequest struct {
	TitleRus         *string `json:"title_rus"`
	TitleOrigin      *string `json:"title_origin"`
	Quantity         *int    `json:"quantity"`
	AvailableForLoan *int    `json:"available_for_loan"`
}

type BookAuthorsMapRequest struct {
	AuthorIDs []uint `json:"author_ids"`
}

type BookGenresMapRequest struct {
	GenreIDs []uint `json:"genre_ids"`
}

type BookInstanceCreateRequest struct {
	ImprintYear int     `json:"imprint_year" form:"imprint_year"`
	Pages       int     `json:"pages" form:"pages"`
	Value       float64 `json:"value" form:"value"`
}

type BookInstanceUpdateRequest struct {
	ImprintYear *int     `json:"imprint_year" form:"imprint_year"`
	Pages       *int     `json:"pages" form:"pages"`
	Value       *float64 `json:"value" form:"value"`
	Status      *string  `json:"status" form:"status"`
}

type ReaderCreateRequest struct {
	Name        string    `json:"name"`
	FathersName string    `json:"fathers_name"`
	Surname     string    `json:"surname"`
	PassportNr  string    `json:"passport_nr"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
}

type ReaderUpdateRequest struct {
	Name        *string    `json:"name"`
	FathersName *string    `json:"fathers_name"`
	Surname     *string    `json:"surname"`
	PassportNr  *string    `json:"passport_nr"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Email       *string    `json:"email"`
	Address     *string    `json:"address"`
}

type OrderCreateRequest struct {
	ReaderID          uint      `json:"reader_id"`
	BookInstanceIDs   []uint    `json:"book_instance_ids"`
	PlannedReturnDate time.Time `json:"planned_return_date"`
}

type OrderCloseRequest struct {
	DamagedInstanceIDs []uint `json:"damaged_instance_ids"`
	LostInstanceIDs    []uint `json:"lost_instance_ids"`
}

type ListMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
