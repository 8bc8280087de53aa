package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/set-night/groupbuyer/internal/domain"
	"github.com/set-night/groupbuyer/internal/link"
	"github.com/set-night/groupbuyer/internal/probe"
)

type mockProbe struct {
	mock.Mock
}

func (m *mockProbe) Snapshot(ctx context.Context) (probe.EntitySet, error) {
	args := m.Called(ctx)
	set, _ := args.Get(0).(probe.EntitySet)
	return set, args.Error(1)
}

func (m *mockProbe) Join(ctx context.Context, l link.Link) (probe.Joined, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(probe.Joined), args.Error(1)
}

func (m *mockProbe) ResolveHandle(ctx context.Context, l link.Link, before, after probe.EntitySet, joined probe.Joined) (domain.EntityHandle, bool) {
	args := m.Called(ctx, l, before, after, joined)
	return args.Get(0).(domain.EntityHandle), args.Bool(1)
}

func (m *mockProbe) CreationYear(ctx context.Context, h domain.EntityHandle) (int, bool) {
	args := m.Called(ctx, h)
	return args.Int(0), args.Bool(1)
}

func (m *mockProbe) CheckOwnership(ctx context.Context, h domain.EntityHandle, username string) bool {
	args := m.Called(ctx, h, username)
	return args.Bool(0)
}

func (m *mockProbe) Leave(ctx context.Context, h domain.EntityHandle) {
	m.Called(ctx, h)
}
