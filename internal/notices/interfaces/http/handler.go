package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"condo-portal/internal/audit"
	"condo-portal/internal/auth"
	"condo-portal/internal/notices/application"
	notices "condo-portal/internal/notices/domain"
)

// Handler handles the notice board under /api/v1/notices.
type Handler struct {
	service     *application.Service
	stream      *StreamHandler
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *application.Service, stream *StreamHandler, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("notices handler: nil service")
	}
	return &Handler{service: service, stream: stream, auditLogger: auditLogger}, nil
}

// ServeHTTP dispatches notice routes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/notices":
		switch r.Method {
		case http.MethodPost:
			h.handlePost(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "/api/v1/notices/stream":
		if h.stream == nil {
			http.Error(w, "stream not ready", http.StatusServiceUnavailable)
			return
		}
		h.stream.ServeHTTP(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type noticeRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req noticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	notice, err := h.service.Post(r.Context(), req.Title, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(notice)
	h.logAudit(r, notice.ID.String(), notice.Title)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	list, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func (h *Handler) logAudit(r *http.Request, noticeID, title string) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{"title": title})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "notice.post",
		ResourceType: "notice",
		ResourceID:   noticeID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, auth.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, notices.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
