package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/m3rciful/awardsbot/core/logger"
	"github.com/m3rciful/awardsbot/voting"
)

// Handler serves the web voting API backed by the shared vote store.
type Handler struct {
	store *voting.Store
}

// NewHandler builds the API handler set.
func NewHandler(store *voting.Store) *Handler {
	return &Handler{store: store}
}

type categoriesResponse struct {
	Success    bool              `json:"success"`
	Categories []voting.Category `json:"categories"`
}

type votingStatusResponse struct {
	Success bool `json:"success"`
	IsOpen  bool `json:"isOpen"`
}

type voteItem struct {
	CategoryID  int64  `json:"categoryId"`
	NomineeName string `json:"nomineeName"`
}

type submitVotesRequest struct {
	VoterName  string     `json:"voterName"`
	VoterEmail string     `json:"voterEmail"`
	Votes      []voteItem `json:"votes"`
}

type voteResult struct {
	CategoryID int64 `json:"categoryId"`
	Success    bool  `json:"success"`
}

type voteError struct {
	CategoryID int64  `json:"categoryId"`
	Error      string `json:"error"`
}

type submitVotesResponse struct {
	Success bool         `json:"success"`
	Results []voteResult `json:"results"`
	Errors  []voteError  `json:"errors,omitempty"`
}

type verifyRequest struct {
	Password string `json:"password"`
}

type verifyResponse struct {
	Success bool `json:"success"`
	IsValid bool `json:"isValid"`
}

type resultsResponse struct {
	Success bool                             `json:"success"`
	Results map[string][]voting.NomineeCount `json:"results"`
}

type voterVotesResponse struct {
	Success bool               `json:"success"`
	Votes   []voting.VoterVote `json:"votes"`
}

// Categories handles GET /api/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Categories(r.Context())
	if err != nil {
		logger.Error(r.Context(), "api", "categories.list", slog.String("err", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	JSONResponse(w, http.StatusOK, categoriesResponse{Success: true, Categories: categories})
}

// VotingStatus handles GET /api/voting-status.
func (h *Handler) VotingStatus(w http.ResponseWriter, r *http.Request) {
	open, err := h.store.VotingOpen(r.Context())
	if err != nil {
		logger.Error(r.Context(), "api", "voting_status", slog.String("err", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	JSONResponse(w, http.StatusOK, votingStatusResponse{Success: true, IsOpen: open})
}

// SubmitVotes handles POST /api/vote: a batch of votes by one web voter.
// Each vote succeeds or fails independently; a duplicate in one category
// never blocks the others.
func (h *Handler) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	var req submitVotesRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.VoterName == "" || req.VoterEmail == "" || len(req.Votes) == 0 {
		ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	open, err := h.store.VotingOpen(r.Context())
	if err != nil {
		logger.Error(r.Context(), "api", "vote.flag_check", slog.String("err", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !open {
		ErrorResponse(w, http.StatusForbidden, "Voting is currently closed")
		return
	}

	identity := voting.WebIdentity(req.VoterEmail)
	results := make([]voteResult, 0, len(req.Votes))
	var voteErrors []voteError

	for _, v := range req.Votes {
		err := h.store.SubmitVote(r.Context(), voting.Vote{
			CategoryID: v.CategoryID,
			VoterName:  req.VoterName,
			Identity:   identity,
			Nominee:    v.NomineeName,
		})
		if err != nil {
			if !errors.Is(err, voting.ErrAlreadyVoted) && !errors.Is(err, voting.ErrInvalidVote) {
				logger.Error(r.Context(), "api", "vote.submit",
					slog.Int64("category_id", v.CategoryID),
					slog.String("err", err.Error()),
				)
				err = errors.New("Database error")
			}
			voteErrors = append(voteErrors, voteError{CategoryID: v.CategoryID, Error: err.Error()})
			continue
		}
		results = append(results, voteResult{CategoryID: v.CategoryID, Success: true})
	}

	JSONResponse(w, http.StatusOK, submitVotesResponse{
		Success: true,
		Results: results,
		Errors:  voteErrors,
	})
}

// AdminVerify handles POST /api/admin/verify.
func (h *Handler) AdminVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	valid, err := h.store.VerifyAdminPassword(r.Context(), req.Password)
	if err != nil {
		logger.Error(r.Context(), "api", "admin.verify", slog.String("err", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	JSONResponse(w, http.StatusOK, verifyResponse{Success: true, IsValid: valid})
}

// AdminResults handles GET /api/admin/results. Results are keyed by category
// name; categories without votes carry an empty list.
func (h *Handler) AdminResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.Results(r.Context())
	if err != nil {
		logger.Error(r.Context(), "api", "admin.results", slog.String("err", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	byName := make(map[string][]voting.NomineeCount, len(results))
	for _, res := range results {
		byName[res.Category.Name] = res.Nominees
	}
	JSONResponse(w, http.StatusOK, resultsResponse{Success: true, Results: byName})
}

// AdminToggle handles POST /api/admin/toggle-voting.
func (h *Handler) AdminToggle(w http.ResponseWriter, r *http.Request) {
	open, err := h.store.ToggleVoting(r.Context())
	if err != nil {
		logger.Error(r.Context(), "api", "admin.toggle", slog.String("err", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	JSONResponse(w, http.StatusOK, votingStatusResponse{Success: true, IsOpen: open})
}

// VoterVotes handles GET /api/voter-votes/{email}.
func (h *Handler) VoterVotes(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	votes, err := h.store.VoterVotes(r.Context(), voting.WebIdentity(email))
	if err != nil {
		if errors.Is(err, voting.ErrInvalidVote) {
			ErrorResponse(w, http.StatusBadRequest, "email is required")
			return
		}
		logger.Error(r.Context(), "api", "voter_votes", slog.String("err", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if votes == nil {
		votes = []voting.VoterVote{}
	}
	JSONResponse(w, http.StatusOK, voterVotesResponse{Success: true, Votes: votes})
}
