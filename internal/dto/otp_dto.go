package dto

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SendOTPResponse struct {
	Message string `json:"message"`
}

type VerifyOTPRequest struct {
	Email  string `json:"email" validate:"required,email"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
	UserID string `json:"userId,omitempty"`
}

type VerifyOTPResponse struct {
	Success bool `json:"success"`
}
