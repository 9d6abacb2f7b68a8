package usecase

import (
	"context"
	"net/http"
	"time"

	repo "app/internal/repository"
)

// AuditLogUsecase は管理者操作ログの参照。
type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

type AuditLogListInput struct {
	ActorUserID *int64
	Action      string
	Limit       int
}

type AuditLogOutput struct {
	ID           int64     `json:"id"`
	ActorUserID  int64     `json:"actor_user_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int64     `json:"resource_id"`
	Before       string    `json:"before"`
	After        string    `json:"after"`
	CreatedAt    time.Time `json:"created_at"`
}

// List は新しい順で返す。件数上限はrepository側でかける。
func (u *AuditLogUsecase) List(ctx context.Context, in AuditLogListInput) ([]AuditLogOutput, error) {
	items, err := u.logs.List(ctx, repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		Action:      in.Action,
		Limit:       in.Limit,
	})
	if err != nil {
		return []AuditLogOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]AuditLogOutput, 0, len(items))
	for _, l := range items {
		outs = append(outs, AuditLogOutput{
			ID:           l.ID,
			ActorUserID:  l.ActorUserID,
			Action:       string(l.Action),
			ResourceType: string(l.ResourceType),
			ResourceID:   l.ResourceID,
			Before:       l.BeforeJSON,
			After:        l.AfterJSON,
			CreatedAt:    l.CreatedAt,
		})
	}
	return outs, nil
}
