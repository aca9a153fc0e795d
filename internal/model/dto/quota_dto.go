package dto

// PlanInfo 套餐信息
type PlanInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	Features        []string `json:"features"`
	MonthlyArticles int      `json:"monthlyArticles"` // -1 不限
	MaxLength       int      `json:"maxLength"`
}

// QuotaInfo 当前用户本月用量
type QuotaInfo struct {
	Plan          string `json:"plan"`
	MonthlyLimit  int    `json:"monthlyLimit"`
	UsedThisMonth int64  `json:"usedThisMonth"`
	Remaining     int64  `json:"remaining"` // -1 不限
	ResetAt       string `json:"resetAt"`
}
