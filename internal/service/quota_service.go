package service

import (
	"errors"
	"sort"
	"time"

	"github.com/qs3c/sports_content_server/config"
	"github.com/qs3c/sports_content_server/internal/model"
	"github.com/qs3c/sports_content_server/internal/model/dto"
	"github.com/qs3c/sports_content_server/internal/repository"
)

var ErrQuotaExceeded = errors.New("monthly generation limit reached for your plan")

type QuotaService struct {
	userRepo    *repository.UserRepository
	contentRepo *repository.ContentRepository
	cfg         *config.Config
	now         func() time.Time
}

func NewQuotaService(userRepo *repository.UserRepository, contentRepo *repository.ContentRepository, cfg *config.Config) *QuotaService {
	return &QuotaService{
		userRepo:    userRepo,
		contentRepo: contentRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Plans 返回套餐列表，按 free/pro/enterprise 排序，其余按名称
func (s *QuotaService) Plans() []dto.PlanInfo {
	rank := map[string]int{config.PlanFree: 0, config.PlanPro: 1, config.PlanEnterprise: 2}
	ids := make([]string, 0, len(s.cfg.Plans))
	for id := range s.cfg.Plans {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ri, okI := rank[ids[i]]
		rj, okJ := rank[ids[j]]
		switch {
		case okI && okJ:
			return ri < rj
		case okI != okJ:
			return okI
		default:
			return ids[i] < ids[j]
		}
	})

	plans := make([]dto.PlanInfo, 0, len(ids))
	for _, id := range ids {
		p := s.cfg.Plans[id]
		features := p.Features
		if features == nil {
			features = []string{}
		}
		plans = append(plans, dto.PlanInfo{
			ID:              id,
			Name:            p.Name,
			Price:           p.Price,
			Features:        features,
			MonthlyArticles: p.MonthlyArticles,
			MaxLength:       p.MaxLength,
		})
	}
	return plans
}

// Usage 获取用户本月用量
func (s *QuotaService) Usage(userID int64) (*dto.QuotaInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.usage(user)
}

// Enforced 是否对生成请求执行月度额度
func (s *QuotaService) Enforced() bool {
	return s.cfg.Quota.Enforce
}

// CheckQuota 检查用户本月是否还能生成内容，未开启额度限制时总是放行
func (s *QuotaService) CheckQuota(user *model.User) error {
	if !s.Enforced() {
		return nil
	}
	info, err := s.usage(user)
	if err != nil {
		return err
	}
	if info.Remaining == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

func (s *QuotaService) usage(user *model.User) (*dto.QuotaInfo, error) {
	plan := s.cfg.Plan(user.Plan)
	start := monthStart(s.now())

	used, err := s.contentRepo.CountByUserSince(user.ID, start)
	if err != nil {
		return nil, err
	}

	remaining := int64(config.Unlimited)
	if plan.MonthlyArticles != config.Unlimited {
		remaining = int64(plan.MonthlyArticles) - used
		if remaining < 0 {
			remaining = 0
		}
	}

	return &dto.QuotaInfo{
		Plan:          user.Plan,
		MonthlyLimit:  plan.MonthlyArticles,
		UsedThisMonth: used,
		Remaining:     remaining,
		ResetAt:       start.AddDate(0, 1, 0).Format(time.RFC3339),
	}, nil
}

// monthStart 当前 UTC 自然月的起点
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
