package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"mime"
	"net/http"

	"pasale-dashboard/internal/client"
	"pasale-dashboard/internal/errors"
	"pasale-dashboard/internal/observability"
	"pasale-dashboard/internal/services"
)

const maxBodyBytes = 1 << 20

// writeFailure maps service errors onto the JSON error envelope. A request
// abandoned by its caller is only logged.
func writeFailure(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	requestID := observability.GetRequestID(r.Context())
	logger = observability.RequestLogger(r.Context(), logger)

	if stderrors.Is(err, context.Canceled) && r.Context().Err() != nil {
		logger.Debug("client went away", "path", r.URL.Path)
		return
	}

	var appErr *errors.AppError
	switch {
	case stderrors.As(err, &appErr):
	case stderrors.Is(err, client.ErrSessionInvalid):
		err = errors.UnauthorizedWrap(err, "Session expired - please login again")
	case stderrors.Is(err, client.ErrAuthenticationFailed):
		err = errors.UnauthorizedWrap(err, "Authentication failed - please login again")
	default:
		err = errors.ServiceUnavailableWrap(err, "Analytics service is unavailable")
	}
	errors.WriteError(w, logger, err, requestID)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.BadRequestWrap(err, "Invalid JSON body")
	}
	return nil
}

// writeDownload hands a generated file to the browser's save flow.
func writeDownload(w http.ResponseWriter, d *services.Download) {
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename}))
	w.Header().Set("Cache-Control", "no-store")
	if d.Notice != "" {
		w.Header().Set("X-Export-Notice", d.Notice)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Body)
}
