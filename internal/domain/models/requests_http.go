package models

// Requests for dashboard HTTP endpoints.

type AccessRequest struct {
	Key string `json:"key" form:"key" validate:"required,max=64"`
}

type ChartRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,max=6,numeric"`
}

type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"30" validate:"gte=1,lte=365"`
}
