package dto

type ViewRequest struct {
	View string `json:"view" validate:"required,oneof=user admin"`
}

type ViewResponse struct {
	View string `json:"view"`
}
