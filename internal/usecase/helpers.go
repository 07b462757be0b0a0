package usecase

import (
	"context"
	"fmt"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/team"
)

// captainTeam resolves the team the caller captains, or fails with
// ErrForbidden when the caller captains nothing.
func captainTeam(ctx context.Context, repo team.Repository, callerID string) (team.Team, error) {
	if callerID == "" {
		return team.Team{}, fmt.Errorf("%w: caller id is required", ErrInvalidInput)
	}

	t, ok, err := repo.GetByCaptain(ctx, callerID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by captain: %w", err)
	}
	if !ok {
		return team.Team{}, fmt.Errorf("%w: caller is not a team captain", ErrForbidden)
	}

	return t, nil
}

// getMatch loads a match or fails with ErrNotFound.
func getMatch(ctx context.Context, repo match.Repository, matchID string) (match.Match, error) {
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, ok, err := repo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match %s not found", ErrNotFound, matchID)
	}

	return m, nil
}

// captainOfSide returns which side of the match the caller captains.
func captainOfSide(ctx context.Context, repo team.Repository, m match.Match, callerID string) (match.TeamSide, error) {
	t, err := captainTeam(ctx, repo, callerID)
	if err != nil {
		return "", err
	}

	side, ok := m.SideOfTeam(t.ID)
	if !ok {
		return "", fmt.Errorf("%w: caller's team is not part of this match", ErrForbidden)
	}

	return side, nil
}
