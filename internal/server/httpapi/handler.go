// Package httpapi is the HTTP adapter: a webhook route feeding chat updates
// to the bot engine, and a signed download route for generated documents.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/AKupriichuk/CV-on-the-Go/internal/logging"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/bot"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// TurnHandler processes one chat update to completion.
type TurnHandler interface {
	Handle(ctx context.Context, u bot.Update) *bot.Reply
}

// DocumentDownloader resolves a document id plus download token into a
// storage URL.
type DocumentDownloader interface {
	DownloadURL(ctx context.Context, documentID, token string) (string, error)
}

type Handler struct {
	engine    TurnHandler
	documents DocumentDownloader
	logger    logging.Logger
}

func NewHandler(engine TurnHandler, documents DocumentDownloader, logger logging.Logger) *Handler {
	return &Handler{engine: engine, documents: documents, logger: logger}
}

// Router assembles the chi router with the standard middleware chain.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Post("/api/v1/updates", h.handleUpdate)
	r.Get("/api/v1/documents/{id}", h.handleDownload)

	return r
}

type updateResponse struct {
	Text     string           `json:"text"`
	Document *documentPayload `json:"document,omitempty"`
}

type documentPayload struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	Content      []byte `json:"content"`
	DownloadPath string `json:"download_path"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var u bot.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update payload")
		return
	}
	if u.ChatID == 0 {
		writeError(w, http.StatusBadRequest, "chat_id is required")
		return
	}

	reply := h.engine.Handle(r.Context(), u)

	resp := updateResponse{Text: reply.Text}
	if doc := reply.Document; doc != nil {
		resp.Document = &documentPayload{
			ID:           doc.ID,
			FileName:     doc.FileName,
			Content:      doc.PDF,
			DownloadPath: "/api/v1/documents/" + doc.ID + "?token=" + url.QueryEscape(doc.DownloadToken),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := r.URL.Query().Get("token")

	location, err := h.documents.DownloadURL(r.Context(), id, token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken):
			writeError(w, http.StatusUnauthorized, "invalid or expired download token")
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			h.logger.Error(r.Context(), "resolve download", "document_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	http.Redirect(w, r, location, http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
