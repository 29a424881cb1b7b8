package governance

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"council/internal/audit"
	"council/internal/platform/metrics"
	"council/internal/proposal"
	"council/internal/vote"
	"council/pkg/domain"
	dErrors "council/pkg/domain-errors"
	"council/pkg/platform/sentinel"
	"council/pkg/platform/tx"
	"council/pkg/requestcontext"
)

// Service orchestrates governance commands. Each command runs its store
// mutation and its audit entry inside one runner scope, so a proposal or
// vote never becomes visible without its audit trail.
type Service struct {
	proposals proposal.Store
	votes     vote.Store
	audit     *audit.Publisher
	runner    tx.Runner
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(proposals proposal.Store, votes vote.Store, auditLog *audit.Publisher, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		proposals: proposals,
		votes:     votes,
		audit:     auditLog,
		runner:    runner,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitProposalRequest carries the caller's inputs for a new proposal.
// VotingEndsAt and Bill are optional metadata and are never validated here.
type SubmitProposalRequest struct {
	Title        string
	Description  string
	Author       domain.Actor
	VotingEndsAt *time.Time
	Bill         *proposal.BillRef
}

// SubmitProposal validates the request, persists the proposal, and records
// a proposal_submitted audit entry. Validation failures leave every store
// untouched; a failed audit append rolls the proposal back.
func (s *Service) SubmitProposal(ctx context.Context, req SubmitProposalRequest) (*proposal.Proposal, error) {
	p, err := proposal.NewProposal(
		domain.NewProposalID(),
		req.Title,
		req.Description,
		req.Author,
		requestcontext.Now(ctx),
		req.VotingEndsAt,
		req.Bill,
	)
	if err != nil {
		return nil, err
	}

	err = s.runner.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.proposals.Create(txCtx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create proposal")
		}
		_, err := s.audit.Record(txCtx, audit.ActionProposalSubmitted, p.Author, map[string]string{
			"proposal_id": p.ID.String(),
			"title":       p.Title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "proposal submitted",
		"proposal_id", p.ID.String(),
		"author", string(p.Author),
	)
	s.metrics.IncProposalsSubmitted()
	s.metrics.IncAuditEntriesRecorded()
	return p, nil
}

// CastVote records one actor's vote on a proposal together with its
// vote_cast audit entry. The duplicate check and the append are atomic in
// the ledger; a second vote by the same actor returns CodeConflict and
// changes nothing.
func (s *Service) CastVote(ctx context.Context, proposalID domain.ProposalID, voter domain.Actor, choice vote.Choice) (*vote.Vote, error) {
	voter = domain.Actor(strings.TrimSpace(string(voter)))
	if voter == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "voter is required")
	}
	if _, err := vote.ParseChoice(string(choice)); err != nil {
		return nil, err
	}

	v := vote.Vote{
		ProposalID: proposalID,
		Voter:      voter,
		Choice:     choice,
		Timestamp:  requestcontext.Now(ctx),
	}

	err := s.runner.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.proposals.FindByID(txCtx, proposalID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "proposal not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load proposal")
		}
		if err := s.votes.CastIfAbsent(txCtx, v); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				s.metrics.IncDuplicateVotesRejected()
				return dErrors.New(dErrors.CodeConflict, "voter has already voted on this proposal")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to cast vote")
		}
		_, err := s.audit.Record(txCtx, audit.ActionVoteCast, voter, map[string]string{
			"proposal_id": proposalID.String(),
			"choice":      string(choice),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "vote cast",
		"proposal_id", proposalID.String(),
		"voter", string(voter),
		"choice", string(choice),
	)
	s.metrics.IncVotesCast(string(choice))
	s.metrics.IncAuditEntriesRecorded()
	return &v, nil
}

// TransitionProposal moves a proposal through its status state machine and
// records a proposal_status_changed audit entry. Illegal transitions return
// CodeConflict and leave the proposal unchanged.
func (s *Service) TransitionProposal(ctx context.Context, proposalID domain.ProposalID, next proposal.Status, actor domain.Actor) (*proposal.Proposal, error) {
	actor = domain.Actor(strings.TrimSpace(string(actor)))
	if actor == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "actor is required")
	}

	var from proposal.Status
	var updated *proposal.Proposal
	err := s.runner.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.proposals.Execute(txCtx, proposalID,
			func(p *proposal.Proposal) error {
				from = p.Status
				return p.Status.CanTransitionTo(next)
			},
			func(p *proposal.Proposal) {
				p.Status = next
			},
		)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "proposal not found")
			}
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, err.Error())
			}
			return err
		}
		_, err = s.audit.Record(txCtx, audit.ActionProposalStatusChanged, actor, map[string]string{
			"proposal_id": proposalID.String(),
			"from":        string(from),
			"to":          string(next),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "proposal status changed",
		"proposal_id", proposalID.String(),
		"from", string(from),
		"to", string(next),
	)
	s.metrics.IncAuditEntriesRecorded()
	return updated, nil
}

// GetProposal returns one proposal by id.
func (s *Service) GetProposal(ctx context.Context, proposalID domain.ProposalID) (*proposal.Proposal, error) {
	p, err := s.proposals.FindByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "proposal not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load proposal")
	}
	return p, nil
}

// Order selects a listing projection.
type Order string

const (
	OrderNewest    Order = "newest"
	OrderOldest    Order = "oldest"
	OrderMostVotes Order = "most_votes"
)

// ParseOrder validates an order string at a trust boundary. Empty input
// defaults to newest-first.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "":
		return OrderNewest, nil
	case OrderNewest, OrderOldest, OrderMostVotes:
		return Order(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown proposal order %q", s)
}

// ListProposals returns all proposals in the requested order. Stores hold
// insertion order; orderings are computed here.
func (s *Service) ListProposals(ctx context.Context, order Order) ([]*proposal.Proposal, error) {
	proposals, err := s.proposals.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list proposals")
	}

	switch order {
	case OrderOldest:
		return proposals, nil
	case OrderMostVotes:
		totals := make(map[domain.ProposalID]int, len(proposals))
		for _, p := range proposals {
			tally, err := s.votes.TallyFor(ctx, p.ID)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to tally votes")
			}
			totals[p.ID] = tally.Total
		}
		sort.SliceStable(proposals, func(i, j int) bool {
			return totals[proposals[i].ID] > totals[proposals[j].ID]
		})
		return proposals, nil
	default:
		for i, j := 0, len(proposals)-1; i < j; i, j = i+1, j-1 {
			proposals[i], proposals[j] = proposals[j], proposals[i]
		}
		return proposals, nil
	}
}

// ProposalsNeedingVoteFrom returns open proposals the actor has not yet
// voted on, oldest first.
func (s *Service) ProposalsNeedingVoteFrom(ctx context.Context, actor domain.Actor) ([]*proposal.Proposal, error) {
	actor = domain.Actor(strings.TrimSpace(string(actor)))
	if actor == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "actor is required")
	}

	proposals, err := s.proposals.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list proposals")
	}

	pending := make([]*proposal.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if !p.Status.IsOpen() {
			continue
		}
		voted, err := s.votes.HasVoted(ctx, p.ID, actor)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check vote")
		}
		if !voted {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

// TallyFor aggregates the votes on one proposal. The proposal must exist.
func (s *Service) TallyFor(ctx context.Context, proposalID domain.ProposalID) (vote.Tally, error) {
	if _, err := s.GetProposal(ctx, proposalID); err != nil {
		return vote.Tally{}, err
	}
	tally, err := s.votes.TallyFor(ctx, proposalID)
	if err != nil {
		return vote.Tally{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to tally votes")
	}
	return tally, nil
}

// VotesFor returns the proposal's votes in cast order.
func (s *Service) VotesFor(ctx context.Context, proposalID domain.ProposalID) ([]vote.Vote, error) {
	if _, err := s.GetProposal(ctx, proposalID); err != nil {
		return nil, err
	}
	votes, err := s.votes.ListFor(ctx, proposalID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list votes")
	}
	return votes, nil
}

// AuditLog returns up to limit audit entries, newest first. A non-positive
// limit returns the whole log.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]audit.Entry, error) {
	entries, err := s.audit.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	return entries, nil
}

// Stats summarizes the system for the dashboard.
type Stats struct {
	TotalProposals    int `json:"total_proposals"`
	ActiveProposals   int `json:"active_proposals"`
	TotalVotes        int `json:"total_votes"`
	TotalAuditEntries int `json:"total_audit_entries"`
}

// Stats counts proposals, open proposals, votes, and audit entries.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	proposals, err := s.proposals.List(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list proposals")
	}
	active := 0
	for _, p := range proposals {
		if p.Status.IsOpen() {
			active++
		}
	}

	totalVotes, err := s.votes.Count(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count votes")
	}
	totalEntries, err := s.audit.Count(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count audit entries")
	}

	return Stats{
		TotalProposals:    len(proposals),
		ActiveProposals:   active,
		TotalVotes:        totalVotes,
		TotalAuditEntries: totalEntries,
	}, nil
}
