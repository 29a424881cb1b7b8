package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"council/internal/enrichment"
	"council/internal/governance"
	"council/internal/proposal"
	"council/internal/vote"
	"council/pkg/domain"
	dErrors "council/pkg/domain-errors"
	"council/pkg/platform/httputil"
	"council/pkg/requestcontext"
)

// Handler is the thin HTTP layer over the governance service. It decodes,
// delegates, and renders; every rule lives below it.
type Handler struct {
	service    *governance.Service
	enrichment *enrichment.Service
	logger     *slog.Logger
}

func NewHandler(service *governance.Service, enrich *enrichment.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, enrichment: enrich, logger: logger}
}

// Register mounts governance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/proposals", h.handleSubmitProposal)
	r.Get("/proposals", h.handleListProposals)
	r.Get("/proposals/needing-vote", h.handleProposalsNeedingVote)
	r.Get("/proposals/{id}", h.handleGetProposal)
	r.Put("/proposals/{id}/status", h.handleTransitionProposal)
	r.Post("/proposals/{id}/votes", h.handleCastVote)
	r.Get("/proposals/{id}/votes", h.handleListVotes)
	r.Get("/proposals/{id}/tally", h.handleTally)
	r.Get("/proposals/{id}/bill", h.handleBill)
	r.Get("/audit", h.handleAuditLog)
	r.Get("/stats", h.handleStats)
}

func proposalIDFromURL(r *http.Request) (domain.ProposalID, error) {
	return domain.ParseProposalID(chi.URLParam(r, "id"))
}

func (h *Handler) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[submitProposalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.service.SubmitProposal(ctx, governance.SubmitProposalRequest{
		Title:        req.Title,
		Description:  req.Description,
		Author:       requestcontext.Actor(ctx),
		VotingEndsAt: req.VotingEndsAt,
		Bill:         req.Bill.toModel(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "proposal submission rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, proposalResponse{p})
}

func (h *Handler) handleListProposals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := governance.ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	proposals, err := h.service.ListProposals(ctx, order)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, proposalListResponse{Proposals: h.listItems(ctx, proposals)})
}

// listItems enriches bill-tracking proposals for listing responses. Lookups
// run in parallel and degrade to placeholders, never failing the listing.
func (h *Handler) listItems(ctx context.Context, proposals []*proposal.Proposal) []proposalListItem {
	var bills map[domain.ProposalID]enrichment.BillMetadata
	if h.enrichment != nil {
		bills = h.enrichment.ForProposals(ctx, proposals)
	}

	items := make([]proposalListItem, len(proposals))
	for i, p := range proposals {
		items[i] = proposalListItem{Proposal: p}
		if metadata, ok := bills[p.ID]; ok {
			items[i].BillMetadata = &metadata
		}
	}
	return items
}

func (h *Handler) handleProposalsNeedingVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	proposals, err := h.service.ProposalsNeedingVoteFrom(ctx, requestcontext.Actor(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, proposalListResponse{Proposals: h.listItems(ctx, proposals)})
}

func (h *Handler) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := proposalIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetProposal(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tally, err := h.service.TallyFor(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := proposalDetailResponse{Proposal: p, Tally: tally}
	if p.Bill != nil && h.enrichment != nil {
		metadata := h.enrichment.BillFor(ctx, *p.Bill)
		resp.Bill = &metadata
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleTransitionProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := proposalIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[transitionProposalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	next, err := proposal.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.service.TransitionProposal(ctx, id, next, requestcontext.Actor(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "proposal transition rejected",
			"request_id", requestID,
			"proposal_id", id.String(),
			"status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, proposalResponse{p})
}

func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := proposalIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[castVoteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	v, err := h.service.CastVote(ctx, id, requestcontext.Actor(ctx), vote.Choice(req.Choice))
	if err != nil {
		h.logger.WarnContext(ctx, "vote rejected",
			"request_id", requestID,
			"proposal_id", id.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleListVotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := proposalIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	votes, err := h.service.VotesFor(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, voteListResponse{Votes: votes})
}

func (h *Handler) handleTally(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := proposalIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tally, err := h.service.TallyFor(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tally)
}

func (h *Handler) handleBill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := proposalIDFromURL(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetProposal(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if p.Bill == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "proposal does not track a bill"))
		return
	}

	metadata := enrichment.Placeholder()
	if h.enrichment != nil {
		metadata = h.enrichment.BillFor(ctx, *p.Bill)
	}
	httputil.WriteJSON(w, http.StatusOK, metadata)
}

func (h *Handler) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := parseLimit(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		limit = parsed
	}

	entries, err := h.service.AuditLog(ctx, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, auditListResponse{Entries: entries})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func parseLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "invalid limit %q", raw)
	}
	return limit, nil
}
