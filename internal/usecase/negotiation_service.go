package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/team"
	idgen "github.com/dimasprk/matchday/internal/platform/id"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/platform/synclane"
)

// NotificationDispatcher queues fire-and-forget delivery of one typed event.
type NotificationDispatcher interface {
	Notify(ctx context.Context, userID string, kind notification.Kind, payload map[string]any)
}

// NegotiationService binds exactly one opponent to a match, through either a
// friendly invite picked by the creator or a public challenge from any other
// captain. Both protocols converge on one acceptance routine; binding the
// opponent is a compare-and-swap so concurrent accepts yield one winner.
type NegotiationService struct {
	matchRepo   match.Repository
	requestRepo match.RequestRepository
	teamRepo    team.Repository
	idGen       idgen.Generator
	notifier    NotificationDispatcher
	logger      *logging.Logger
	now         func() time.Time
	lanes       synclane.KeyedMutex
}

func NewNegotiationService(
	matchRepo match.Repository,
	requestRepo match.RequestRepository,
	teamRepo team.Repository,
	idGen idgen.Generator,
	notifier NotificationDispatcher,
	logger *logging.Logger,
) *NegotiationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &NegotiationService{
		matchRepo:   matchRepo,
		requestRepo: requestRepo,
		teamRepo:    teamRepo,
		idGen:       idGen,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// InviteTeam lets the creating captain of a friendly match invite a specific
// opponent team.
func (s *NegotiationService) InviteTeam(ctx context.Context, callerID, matchID, teamID string) (match.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NegotiationService.InviteTeam")
	defer span.End()

	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return match.Request{}, err
	}
	if m.Type != match.TypeFriendly {
		return match.Request{}, fmt.Errorf("%w: only friendly matches can invite opponents", ErrInvalidInput)
	}
	if m.CreatedBy != callerID {
		return match.Request{}, fmt.Errorf("%w: only the creating captain may invite teams", ErrForbidden)
	}
	if m.TeamBID != "" {
		return match.Request{}, fmt.Errorf("%w: match already has a confirmed opponent", ErrConflict)
	}
	if teamID == "" || teamID == m.TeamAID {
		return match.Request{}, fmt.Errorf("%w: invited team must be a different team", ErrInvalidInput)
	}

	invited, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return match.Request{}, fmt.Errorf("get invited team: %w", err)
	}
	if !ok {
		return match.Request{}, fmt.Errorf("%w: team %s not found", ErrNotFound, teamID)
	}

	if _, exists, err := s.requestRepo.GetPendingByMatchAndTeam(ctx, m.ID, teamID); err != nil {
		return match.Request{}, fmt.Errorf("check pending invite: %w", err)
	} else if exists {
		return match.Request{}, fmt.Errorf("%w: team already has a pending invite", ErrConflict)
	}

	req, err := s.createRequest(ctx, m.ID, teamID, match.DirectionInvite)
	if err != nil {
		return match.Request{}, err
	}

	s.notifier.Notify(ctx, invited.CaptainID, notification.KindFriendlyInvitation, map[string]any{
		"title":      "Friendly Match Invitation",
		"match_id":   m.ID,
		"request_id": req.ID,
		"team_id":    m.TeamAID,
	})
	s.logger.InfoContext(ctx, "friendly invite created",
		"match_id", m.ID,
		"invited_team_id", teamID,
		"request_id", req.ID,
	)

	return req, nil
}

// RequestToPlay lets any other captain challenge a public match.
func (s *NegotiationService) RequestToPlay(ctx context.Context, callerID, matchID string) (match.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NegotiationService.RequestToPlay")
	defer span.End()

	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return match.Request{}, err
	}
	if m.Type != match.TypePublic {
		return match.Request{}, fmt.Errorf("%w: only public matches accept challenges", ErrInvalidInput)
	}
	if m.TeamBID != "" {
		return match.Request{}, fmt.Errorf("%w: match already has an opponent", ErrConflict)
	}

	challenger, err := captainTeam(ctx, s.teamRepo, callerID)
	if err != nil {
		return match.Request{}, err
	}
	if challenger.ID == m.TeamAID {
		return match.Request{}, fmt.Errorf("%w: cannot request to play against your own team", ErrInvalidInput)
	}

	if _, exists, err := s.requestRepo.GetPendingByMatchAndTeam(ctx, m.ID, challenger.ID); err != nil {
		return match.Request{}, fmt.Errorf("check pending challenge: %w", err)
	} else if exists {
		return match.Request{}, fmt.Errorf("%w: request already sent", ErrConflict)
	}

	req, err := s.createRequest(ctx, m.ID, challenger.ID, match.DirectionChallenge)
	if err != nil {
		return match.Request{}, err
	}

	s.notifier.Notify(ctx, m.CreatedBy, notification.KindPlayRequest, map[string]any{
		"title":      "New Challenge Request",
		"match_id":   m.ID,
		"request_id": req.ID,
		"team_id":    challenger.ID,
	})
	s.logger.InfoContext(ctx, "challenge request created",
		"match_id", m.ID,
		"challenger_team_id", challenger.ID,
		"request_id", req.ID,
	)

	return req, nil
}

// AcceptRequest resolves a pending invite or challenge into the bound
// opponent. Only the first accept to observe an empty opponent slot wins;
// every sibling pending request is auto-rejected.
func (s *NegotiationService) AcceptRequest(ctx context.Context, callerID, requestID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NegotiationService.AcceptRequest")
	defer span.End()

	req, m, err := s.loadPendingRequest(ctx, requestID)
	if err != nil {
		return match.Match{}, err
	}
	if err := s.authorizeDecision(ctx, req, m, callerID); err != nil {
		return match.Match{}, err
	}

	unlock := s.lanes.Lock("negotiation:" + m.ID)
	defer unlock()

	bound, ok, err := s.matchRepo.BindOpponent(ctx, m.ID, req.TeamID)
	if err != nil {
		return match.Match{}, fmt.Errorf("bind opponent: %w", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match already has a confirmed opponent", ErrConflict)
	}

	if _, ok, err := s.requestRepo.Resolve(ctx, req.ID, match.RequestAccepted); err != nil {
		return match.Match{}, fmt.Errorf("resolve request: %w", err)
	} else if !ok {
		return match.Match{}, fmt.Errorf("%w: request is no longer pending", ErrConflict)
	}

	if _, err := s.requestRepo.RejectSiblings(ctx, m.ID, req.ID); err != nil {
		return match.Match{}, fmt.Errorf("reject sibling requests: %w", err)
	}

	s.notifyDecision(ctx, req, m, true)
	s.logger.InfoContext(ctx, "opponent bound",
		"match_id", m.ID,
		"team_b_id", req.TeamID,
		"direction", string(req.Direction),
	)

	return bound, nil
}

// DeclineRequest rejects a pending invite or challenge.
func (s *NegotiationService) DeclineRequest(ctx context.Context, callerID, requestID string) (match.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NegotiationService.DeclineRequest")
	defer span.End()

	req, m, err := s.loadPendingRequest(ctx, requestID)
	if err != nil {
		return match.Request{}, err
	}
	if err := s.authorizeDecision(ctx, req, m, callerID); err != nil {
		return match.Request{}, err
	}

	resolved, ok, err := s.requestRepo.Resolve(ctx, req.ID, match.RequestRejected)
	if err != nil {
		return match.Request{}, fmt.Errorf("resolve request: %w", err)
	}
	if !ok {
		return match.Request{}, fmt.Errorf("%w: request is no longer pending", ErrConflict)
	}

	s.notifyDecision(ctx, req, m, false)

	return resolved, nil
}

func (s *NegotiationService) createRequest(ctx context.Context, matchID, teamID string, direction match.RequestDirection) (match.Request, error) {
	requestID, err := s.idGen.NewID()
	if err != nil {
		return match.Request{}, fmt.Errorf("generate request id: %w", err)
	}

	req := match.Request{
		ID:        requestID,
		MatchID:   matchID,
		TeamID:    teamID,
		Direction: direction,
		Status:    match.RequestPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return match.Request{}, fmt.Errorf("create match request: %w", err)
	}

	return req, nil
}

func (s *NegotiationService) loadPendingRequest(ctx context.Context, requestID string) (match.Request, match.Match, error) {
	if requestID == "" {
		return match.Request{}, match.Match{}, fmt.Errorf("%w: request id is required", ErrInvalidInput)
	}

	req, ok, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return match.Request{}, match.Match{}, fmt.Errorf("get request by id: %w", err)
	}
	if !ok {
		return match.Request{}, match.Match{}, fmt.Errorf("%w: request %s not found", ErrNotFound, requestID)
	}
	if req.Status != match.RequestPending {
		return match.Request{}, match.Match{}, fmt.Errorf("%w: request is no longer pending", ErrConflict)
	}

	m, err := getMatch(ctx, s.matchRepo, req.MatchID)
	if err != nil {
		return match.Request{}, match.Match{}, err
	}

	return req, m, nil
}

// authorizeDecision checks who may answer the request: the invited team's
// captain for an invite, the match creator for a challenge.
func (s *NegotiationService) authorizeDecision(ctx context.Context, req match.Request, m match.Match, callerID string) error {
	switch req.Direction {
	case match.DirectionInvite:
		invited, ok, err := s.teamRepo.GetByID(ctx, req.TeamID)
		if err != nil {
			return fmt.Errorf("get invited team: %w", err)
		}
		if !ok || invited.CaptainID != callerID {
			return fmt.Errorf("%w: only the invited team's captain may answer this invite", ErrForbidden)
		}
	case match.DirectionChallenge:
		if m.CreatedBy != callerID {
			return fmt.Errorf("%w: only the match creator may answer challenges", ErrForbidden)
		}
	default:
		return fmt.Errorf("%w: unknown request direction %q", ErrInvalidInput, req.Direction)
	}

	return nil
}

// notifyDecision tells the party that was waiting on the decision.
func (s *NegotiationService) notifyDecision(ctx context.Context, req match.Request, m match.Match, accepted bool) {
	kind := notification.KindPlayRequestDeclined
	title := "Request Declined"
	if accepted {
		kind = notification.KindPlayRequestAccepted
		title = "Challenge Accepted!"
	}

	payload := map[string]any{
		"title":      title,
		"match_id":   m.ID,
		"request_id": req.ID,
	}

	switch req.Direction {
	case match.DirectionInvite:
		// The creator was waiting on the invited team's answer.
		s.notifier.Notify(ctx, m.CreatedBy, kind, payload)
	case match.DirectionChallenge:
		// The challenger was waiting on the creator's answer.
		challenger, ok, err := s.teamRepo.GetByID(ctx, req.TeamID)
		if err != nil || !ok {
			s.logger.WarnContext(ctx, "challenger team lookup failed for notification",
				"team_id", req.TeamID,
				"error", err,
			)
			return
		}
		s.notifier.Notify(ctx, challenger.CaptainID, kind, payload)
	}
}
