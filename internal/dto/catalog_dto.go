package dto

type CreateAppRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Recommended bool   `json:"recommended"`
}

type UpdateAppRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	Recommended *bool   `json:"recommended,omitempty"`
}

type CreatePlanRequest struct {
	Name    string `json:"name" validate:"required"`
	Price   int    `json:"price" validate:"required,gt=0"`
	Details string `json:"details"`
}

type UpdatePlanRequest struct {
	Name    *string `json:"name,omitempty"`
	Price   *int    `json:"price,omitempty" validate:"omitempty,gt=0"`
	Details *string `json:"details,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

type CreateReviewRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
}
