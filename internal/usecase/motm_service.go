package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/motm"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/player"
	"github.com/dimasprk/matchday/internal/domain/roster"
	idgen "github.com/dimasprk/matchday/internal/platform/id"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/platform/synclane"
)

// motmBonusPoints is the season-point bonus for the voted winner.
const motmBonusPoints = 2

// VoteResult reports a recorded vote and, when the vote reached quorum,
// the finalized winner.
type VoteResult struct {
	Vote      motm.Vote
	Finalized bool
	WinnerID  string
}

// MotmService collects one Man-of-the-Match vote per approved participant and
// finalizes the winner once every participant has voted. Finalization is
// exactly-once: the voting-open flag is closed with a compare-and-swap, so
// the quorum-reaching vote is the only one that tallies.
//
// Tie-break: most votes wins; ties go to the player whose first vote arrived
// earliest, then to the lexicographically smallest player id.
type MotmService struct {
	matchRepo  match.Repository
	rosterRepo roster.Repository
	voteRepo   motm.Repository
	playerRepo player.Repository
	idGen      idgen.Generator
	notifier   NotificationDispatcher
	logger     *logging.Logger
	now        func() time.Time
	lanes      synclane.KeyedMutex
}

func NewMotmService(
	matchRepo match.Repository,
	rosterRepo roster.Repository,
	voteRepo motm.Repository,
	playerRepo player.Repository,
	idGen idgen.Generator,
	notifier NotificationDispatcher,
	logger *logging.Logger,
) *MotmService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MotmService{
		matchRepo:  matchRepo,
		rosterRepo: rosterRepo,
		voteRepo:   voteRepo,
		playerRepo: playerRepo,
		idGen:      idGen,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Vote records the caller's pick and finalizes the winner on quorum.
func (s *MotmService) Vote(ctx context.Context, callerID, matchID, votedPlayerID string) (VoteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MotmService.Vote")
	defer span.End()

	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return VoteResult{}, err
	}
	if !m.MotmVotingOpen {
		return VoteResult{}, fmt.Errorf("%w: MOTM voting is not open for this match", ErrConflict)
	}

	approved, err := s.rosterRepo.ListApprovedByMatch(ctx, m.ID)
	if err != nil {
		return VoteResult{}, fmt.Errorf("list approved participants: %w", err)
	}

	participants := make(map[string]struct{}, len(approved))
	for _, row := range approved {
		participants[row.PlayerID] = struct{}{}
	}
	if _, ok := participants[callerID]; !ok {
		return VoteResult{}, fmt.Errorf("%w: only approved participants may vote", ErrForbidden)
	}
	if _, ok := participants[votedPlayerID]; !ok {
		return VoteResult{}, fmt.Errorf("%w: voted player is not an approved participant of this match", ErrInvalidInput)
	}

	voteID, err := s.idGen.NewID()
	if err != nil {
		return VoteResult{}, fmt.Errorf("generate vote id: %w", err)
	}

	vote := motm.Vote{
		ID:            voteID,
		MatchID:       m.ID,
		VoterID:       callerID,
		VotedPlayerID: votedPlayerID,
		CreatedAt:     s.now().UTC(),
	}
	if err := vote.Validate(); err != nil {
		return VoteResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	unlock := s.lanes.Lock("motm:" + m.ID)
	defer unlock()

	created, err := s.voteRepo.CreateIfFirst(ctx, vote)
	if err != nil {
		return VoteResult{}, fmt.Errorf("create vote: %w", err)
	}
	if !created {
		return VoteResult{}, fmt.Errorf("%w: voter has already voted in this match", ErrConflict)
	}

	votes, err := s.voteRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return VoteResult{}, fmt.Errorf("list votes: %w", err)
	}
	if len(votes) < len(approved) {
		return VoteResult{Vote: vote}, nil
	}

	winnerID, finalized, err := s.finalizeWinner(ctx, m, votes, approved)
	if err != nil {
		return VoteResult{}, err
	}

	return VoteResult{Vote: vote, Finalized: finalized, WinnerID: winnerID}, nil
}

// finalizeWinner tallies the full vote set, credits the winner, and tells
// every participant. The CloseMotmVoting swap makes this a one-shot path.
func (s *MotmService) finalizeWinner(ctx context.Context, m match.Match, votes []motm.Vote, approved []roster.MatchPlayer) (string, bool, error) {
	closed, err := s.matchRepo.CloseMotmVoting(ctx, m.ID)
	if err != nil {
		return "", false, fmt.Errorf("close motm voting: %w", err)
	}
	if !closed {
		// Another finalizer already ran.
		return "", false, nil
	}

	winnerID := tallyWinner(votes)
	if winnerID == "" {
		return "", false, fmt.Errorf("%w: no votes to tally", ErrConflict)
	}

	if err := s.playerRepo.IncrementMotm(ctx, winnerID); err != nil {
		return "", false, fmt.Errorf("increment motm count: %w", err)
	}
	if err := s.playerRepo.AddSeasonPoints(ctx, []string{winnerID}, motmBonusPoints); err != nil {
		return "", false, fmt.Errorf("award motm bonus: %w", err)
	}

	payload := map[string]any{
		"match_id":  m.ID,
		"winner_id": winnerID,
	}
	for _, row := range approved {
		s.notifier.Notify(ctx, row.PlayerID, notification.KindMotmWinner, payload)
	}
	s.logger.InfoContext(ctx, "motm winner finalized",
		"match_id", m.ID,
		"winner_id", winnerID,
		"vote_count", len(votes),
	)

	return winnerID, true, nil
}

// tallyWinner picks the most-voted player. Ties break on the earliest first
// vote for the tied player, then on player id.
func tallyWinner(votes []motm.Vote) string {
	type tally struct {
		playerID  string
		count     int
		firstVote time.Time
	}

	byPlayer := make(map[string]*tally, len(votes))
	for _, v := range votes {
		t, ok := byPlayer[v.VotedPlayerID]
		if !ok {
			t = &tally{playerID: v.VotedPlayerID, firstVote: v.CreatedAt}
			byPlayer[v.VotedPlayerID] = t
		}
		t.count++
		if v.CreatedAt.Before(t.firstVote) {
			t.firstVote = v.CreatedAt
		}
	}

	tallies := make([]*tally, 0, len(byPlayer))
	for _, t := range byPlayer {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		if !tallies[i].firstVote.Equal(tallies[j].firstVote) {
			return tallies[i].firstVote.Before(tallies[j].firstVote)
		}
		return tallies[i].playerID < tallies[j].playerID
	})

	if len(tallies) == 0 {
		return ""
	}
	return tallies[0].playerID
}
