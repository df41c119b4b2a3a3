package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"xhsmonitor/pkg/converter"
	"xhsmonitor/pkg/crawler"
	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/models"
	"xhsmonitor/pkg/store"
)

// Handler exposes the monitor pipeline over HTTP
type Handler struct {
	store     *store.Store
	crawler   *crawler.Crawler
	converter converter.Converter
	logger    logger.Logger
}

// NewHandler creates an HTTP handler over the pipeline components
func NewHandler(st *store.Store, cr *crawler.Crawler, conv converter.Converter, log logger.Logger) *Handler {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Handler{
		store:     st,
		crawler:   cr,
		converter: conv,
		logger:    log,
	}
}

// Routes returns the API routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/accounts", h.ListAccounts)
	r.Post("/accounts", h.AddAccount)
	r.Delete("/accounts/{accountID}", h.DeleteAccount)

	r.Post("/fetch-content", h.FetchContent)
	r.Post("/convert-content/{noteID}", h.ConvertContent)

	r.Get("/contents/user/{userID}", h.GetContentsByUser)
	r.Get("/contents/type", h.GetContentsByType)
	r.Get("/contents/{noteID}", h.GetContent)

	r.Get("/statistics", h.GetStatistics)

	return r
}

// envelope is the uniform response wrapper: code 0 on success, -1 on failure
type envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(w http.ResponseWriter, r *http.Request, message string, data interface{}) {
	render.JSON(w, r, envelope{Code: 0, Message: message, Data: data})
}

func fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, envelope{Code: -1, Message: message})
}

// AddAccountRequest is the request body for registering an account
type AddAccountRequest struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	Cookie   string `json:"cookie"`
	A1       string `json:"a1"`
}

// AddAccount registers a crawling account
func (h *Handler) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req AddAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Cookie == "" {
		fail(w, r, http.StatusBadRequest, "cookie is required")
		return
	}

	account := models.NewAccount(uuid.NewString(), req.Username, req.UserID, req.Cookie, req.A1)

	added, err := h.store.AddAccount(account)
	if err != nil {
		h.logger.WithError(err).Error("failed to persist account")
		fail(w, r, http.StatusInternalServerError, "failed to persist account")
		return
	}
	if !added {
		fail(w, r, http.StatusConflict, "account already exists")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, envelope{Code: 0, Message: "account registered", Data: account})
}

// ListAccounts returns all registered accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.GetAllAccounts()
	if err != nil {
		h.logger.WithError(err).Error("failed to list accounts")
		fail(w, r, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	ok(w, r, "accounts listed", accounts)
}

// DeleteAccount removes an account by id
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	deleted, err := h.store.DeleteAccount(accountID)
	if err != nil {
		h.logger.WithError(err).Error("failed to delete account")
		fail(w, r, http.StatusInternalServerError, "failed to delete account")
		return
	}
	if !deleted {
		fail(w, r, http.StatusNotFound, "account not found")
		return
	}
	ok(w, r, "account removed", nil)
}

// FetchContentRequest is the request body for triggering a crawl
type FetchContentRequest struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
}

// FetchContentResult summarizes one crawl run
type FetchContentResult struct {
	Total            int `json:"total"`
	Saved            int `json:"saved"`
	Duplicates       int `json:"duplicates"`
	ConversionFailed int `json:"conversion_failed"`
}

// FetchContent crawls a target user's notes through a registered account,
// stores the new ones, and converts them in place. Duplicates are skipped by
// the store's note-id key.
func (h *Handler) FetchContent(w http.ResponseWriter, r *http.Request) {
	var req FetchContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccountID == "" || req.UserID == "" {
		fail(w, r, http.StatusBadRequest, "account_id and user_id are required")
		return
	}

	account, err := h.store.GetAccount(req.AccountID)
	if err != nil {
		h.logger.WithError(err).Error("failed to load account")
		fail(w, r, http.StatusInternalServerError, "failed to load account")
		return
	}
	if account == nil {
		fail(w, r, http.StatusNotFound, "account not found")
		return
	}

	contents, err := h.crawler.FetchUserContent(account, req.UserID)
	if err != nil && len(contents) == 0 {
		fail(w, r, http.StatusBadGateway, "crawl failed: "+err.Error())
		return
	}

	result := FetchContentResult{Total: len(contents)}
	for _, content := range contents {
		inserted, err := h.store.InsertContent(content)
		if err != nil {
			h.logger.WithError(err).Error("failed to persist content")
			fail(w, r, http.StatusInternalServerError, "failed to persist content")
			return
		}
		if !inserted {
			result.Duplicates++
			continue
		}
		result.Saved++

		if !h.converter.Convert(content) {
			result.ConversionFailed++
		}
		if _, err := h.store.UpdateContent(content); err != nil {
			h.logger.WithError(err).Error("failed to persist conversion result")
		}
	}

	message := "fetch completed"
	if err != nil {
		// Partial result: the crawl aborted mid-way but earlier pages were
		// classified and stored.
		message = "fetch aborted after partial result: " + err.Error()
	}

	ok(w, r, message, result)
}

// ConvertContent re-runs conversion for one stored content
func (h *Handler) ConvertContent(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")

	content, err := h.store.GetContent(noteID)
	if err != nil {
		h.logger.WithError(err).Error("failed to load content")
		fail(w, r, http.StatusInternalServerError, "failed to load content")
		return
	}
	if content == nil {
		fail(w, r, http.StatusNotFound, "content not found")
		return
	}

	converted := h.converter.Convert(content)
	if _, err := h.store.UpdateContent(content); err != nil {
		h.logger.WithError(err).Error("failed to persist conversion result")
		fail(w, r, http.StatusInternalServerError, "failed to persist conversion result")
		return
	}

	if !converted {
		ok(w, r, "conversion failed, fallback text stored", content)
		return
	}
	ok(w, r, "conversion completed", content)
}

// GetContent returns one stored content by note id
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")

	content, err := h.store.GetContent(noteID)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "failed to load content")
		return
	}
	if content == nil {
		fail(w, r, http.StatusNotFound, "content not found")
		return
	}
	ok(w, r, "content found", content)
}

// GetContentsByUser returns all stored contents of one owner, newest first
func (h *Handler) GetContentsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	contents, err := h.store.GetContentsByOwner(userID)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "failed to load contents")
		return
	}
	ok(w, r, "contents listed", contents)
}

// GetContentsByType filters one owner's contents by content type
func (h *Handler) GetContentsByType(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	contentType := r.URL.Query().Get("type")

	if userID == "" || contentType == "" {
		fail(w, r, http.StatusBadRequest, "user_id and type are required")
		return
	}

	switch models.ContentType(contentType) {
	case models.ContentTypeVideo, models.ContentTypeImage, models.ContentTypeText:
	default:
		fail(w, r, http.StatusBadRequest, "unknown content type: "+contentType)
		return
	}

	contents, err := h.store.GetContentsByOwnerAndType(userID, models.ContentType(contentType))
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "failed to load contents")
		return
	}
	ok(w, r, "contents listed", contents)
}

// Statistics summarizes the stored corpus
type Statistics struct {
	TotalContents int            `json:"total_contents"`
	TotalAccounts int            `json:"total_accounts"`
	ByType        map[string]int `json:"by_type"`
	ByStatus      map[string]int `json:"by_status"`
}

// GetStatistics returns corpus-wide counts by type and conversion status
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	contents, err := h.store.GetAllContents()
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "failed to load contents")
		return
	}
	accounts, err := h.store.GetAllAccounts()
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "failed to load accounts")
		return
	}

	stats := Statistics{
		TotalContents: len(contents),
		TotalAccounts: len(accounts),
		ByType:        map[string]int{},
		ByStatus:      map[string]int{},
	}
	for _, c := range contents {
		stats.ByType[string(c.Type)]++
		stats.ByStatus[string(c.Status)]++
	}

	ok(w, r, "statistics computed", stats)
}
