package dto

import "github.com/google/uuid"

type PlaceOrderRequest struct {
	PlanID uuid.UUID `json:"plan_id" validate:"required"`
	// Either an uploaded proof image URL (manual transfer) or a verified
	// gateway payment id for the Razorpay flow.
	PaymentID string `json:"payment_id,omitempty"`
	ProofURL  string `json:"proof_url,omitempty"`
}

type PlaceOrderResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	Status      string    `json:"status"`
	SupportLink string    `json:"support_link,omitempty"`
}

type TransitionOrderRequest struct {
	Status      string `json:"status" validate:"required,oneof=accepted rejected"`
	Credentials string `json:"credentials,omitempty"`
}

type UploadProofResponse struct {
	URL string `json:"url"`
}
