package dto

type CreateGatewayOrderRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency,omitempty"`
	Receipt  string  `json:"receipt,omitempty"`
}

// GatewayOrderResponse mirrors the Razorpay order object the client hands to
// the hosted checkout.
type GatewayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type GatewayErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

type PaymentConfigRequest struct {
	WhatsAppNumber string `json:"whatsapp_number"`
	UPIID          string `json:"upi_id"`
	QRCodeURL      string `json:"qr_code_url"`
}
