package dto

import "github.com/google/uuid"

type SendOTPRequest struct {
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

type SendOTPResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

type VerifyOTPRequest struct {
	CountryCode string          `json:"country_code"`
	Phone       string          `json:"phone"`
	OTP         string          `json:"otp"`
	FCMToken    string          `json:"fcm_token,omitempty"`
	Data        *ProfilePayload `json:"data,omitempty"`
}

type VerifyOTPResponse struct {
	Success          bool            `json:"success"`
	Message          string          `json:"message"`
	Token            string          `json:"token"`
	RefreshToken     string          `json:"refreshToken"`
	UserID           uuid.UUID       `json:"userId"`
	FirstTime        bool            `json:"firstTime"`
	ProfileCompleted bool            `json:"profileCompleted"`
	Data             ProfileSnapshot `json:"data"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	Identity     IdentityResponse `json:"identity"`
}

type IdentityResponse struct {
	ID          uuid.UUID `json:"id"`
	Role        string    `json:"role"`
	CountryCode string    `json:"country_code,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Redis     string `json:"redis,omitempty"`
}
