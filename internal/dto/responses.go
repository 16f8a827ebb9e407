package dto

import (
	"github.com/ignatzorin/gigmarket-backend/internal/models"
)

// ErrorResponse — стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse — стандартный успешный ответ с сообщением.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse — ответ на регистрацию/вход/обновление токенов.
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// Pagination описывает страницу списка.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// GigListResponse — страница заданий.
type GigListResponse struct {
	Gigs       []models.Gig `json:"gigs"`
	Pagination Pagination   `json:"pagination"`
}

// GigShort — минимальный срез задания для вложенных ответов.
type GigShort struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Budget float64 `json:"budget"`
	Status string  `json:"status"`
}

// BidWithGig — отклик с кратким описанием задания.
type BidWithGig struct {
	models.Bid
	Gig *GigShort `json:"gig,omitempty"`
}
