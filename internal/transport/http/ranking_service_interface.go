package http

import (
	"context"

	"divstreak/internal/dividend"
	"divstreak/internal/ranking"
	"divstreak/internal/services"
)

// RankingServiceInterface defines the ranking operations the handlers need
type RankingServiceInterface interface {
	Ranking(ctx context.Context, filter ranking.Filter, limit int) (*services.RankingView, error)
	Markets(ctx context.Context) ([]string, error)
	Entity(ctx context.Context, code string) (*services.EntityDetail, error)
	Refresh(ctx context.Context) (*dividend.Ranking, error)
}
