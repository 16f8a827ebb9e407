package dto

// RegisterRequest — запрос регистрации пользователя.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest — запрос входа.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest — запрос обновления пары токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateGigRequest — запрос создания задания.
type CreateGigRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Budget      float64  `json:"budget" binding:"required"`
	Category    string   `json:"category"`
	Skills      []string `json:"skills"`
}

// UpdateGigRequest — запрос изменения описательных полей задания.
type UpdateGigRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Budget      float64  `json:"budget" binding:"required"`
	Category    string   `json:"category"`
	Skills      []string `json:"skills"`
}

// SubmitBidRequest — запрос подачи отклика.
type SubmitBidRequest struct {
	GigID         string  `json:"gig_id" binding:"required"`
	Message       string  `json:"message" binding:"required"`
	ProposedPrice float64 `json:"proposed_price" binding:"required"`
	DeliveryDays  int     `json:"delivery_days" binding:"required"`
}

// UpdateBidRequest — запрос изменения отклика.
type UpdateBidRequest struct {
	Message       string  `json:"message" binding:"required"`
	ProposedPrice float64 `json:"proposed_price" binding:"required"`
	DeliveryDays  int     `json:"delivery_days" binding:"required"`
}
