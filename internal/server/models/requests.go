package models

// RegisterRequest is the input to registration. Every field is required;
// text fields are trimmed before validation, the password is taken as is.
type RegisterRequest struct {
	UserName  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

// LoginRequest carries credentials for /auth/login.
type LoginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

// NewMessage is the input to sending a message. FromUserName is always taken
// from the authenticated caller.
type NewMessage struct {
	FromUserName string `json:"-" validate:"required"`
	ToUserName   string `json:"to_username" validate:"required"`
	Body         string `json:"body" validate:"required"`
}
