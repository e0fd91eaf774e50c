package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/presign-service/pkg/presign"
)

// IssueRecorder counts issued URLs
type IssueRecorder interface {
	RecordIssued(method string)
}

// PresignHandler serves GET /presigned-url
type PresignHandler struct {
	signer   presign.Signer
	logger   *slog.Logger
	recorder IssueRecorder
}

// PresignHandlerOption configures a PresignHandler
type PresignHandlerOption func(*PresignHandler)

// WithLogger sets the handler logger (default: slog.Default())
func WithLogger(logger *slog.Logger) PresignHandlerOption {
	return func(h *PresignHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithIssueRecorder counts every URL the handler returns
func WithIssueRecorder(recorder IssueRecorder) PresignHandlerOption {
	return func(h *PresignHandler) {
		h.recorder = recorder
	}
}

// NewPresignHandler creates a handler that signs through signer
func NewPresignHandler(signer presign.Signer, opts ...PresignHandlerOption) *PresignHandler {
	h := &PresignHandler{
		signer: signer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandlePresignedURL issues a GET and a PUT URL for the requested key.
//
// Query: key, content-length, no-wait, max-requests, expire, force-download, limit-rate.
// Invalid key or content-length answers 400 with an empty body; a signing
// failure answers 500 with an empty body.
func (h *PresignHandler) HandlePresignedURL(w http.ResponseWriter, r *http.Request) {
	req, err := presign.ParseRequest(r.URL.Query())
	if err != nil {
		h.logger.Debug("Rejected presign request", "request_id", RequestIDFromContext(r.Context()), "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	pair, err := presign.Issue(r.Context(), h.signer, req)
	if err != nil {
		h.logger.Error("Failed to presign URLs",
			"request_id", RequestIDFromContext(r.Context()),
			"key", req.Key,
			"error", err,
		)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if h.recorder != nil {
		h.recorder.RecordIssued(http.MethodGet)
		h.recorder.RecordIssued(http.MethodPut)
	}

	h.logger.Debug("Issued presigned URLs",
		"request_id", RequestIDFromContext(r.Context()),
		"key", req.Key,
		"expires", req.Expires,
		"content_length", req.ContentLength,
	)
	render.JSON(w, r, pair)
}
