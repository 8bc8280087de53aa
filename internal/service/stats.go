package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/repository"
)

type StatsService struct {
	store           repository.StatsStore
	conv            *currency.Converter
	defaultCurrency string
}

func NewStatsService(store repository.StatsStore, conv *currency.Converter, defaultCurrency string) *StatsService {
	return &StatsService{store: store, conv: conv, defaultCurrency: defaultCurrency}
}

func (s *StatsService) Stats(ctx context.Context) (domain.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	st.AveragePoints = decimal.Zero
	if st.TotalUsers > 0 {
		st.AveragePoints = st.TotalPoints.Div(decimal.NewFromInt(st.TotalUsers)).Round(currency.DisplayPlaces)
	}
	return st, nil
}

// Leaderboard ranks the top n users by canonical balance, each shown in
// their own display currency.
func (s *StatsService) Leaderboard(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	users, err := s.store.TopUsers(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		code := u.DisplayCurrency(s.defaultCurrency)
		if !s.conv.Supported(code) {
			code = s.defaultCurrency
		}
		points, err := s.conv.ToDisplay(u.Points, code)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   u.TelegramID,
			Username: u.Username,
			Points:   points,
			Currency: code,
		})
	}
	return entries, nil
}
