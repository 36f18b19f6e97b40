package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/yourorg/realty-agent-api/internal/archive"
	"github.com/yourorg/realty-agent-api/smythos"
)

// Upstream is the agent API transport. *smythos.Client implements it.
type Upstream interface {
	Call(ctx context.Context, endpoint, method string, body any, query url.Values) (string, error)
}

// Deps are shared by every agent-backed route.
type Deps struct {
	Upstream Upstream
	Recorder *archive.Recorder
}

type okResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

type errResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondOK(w http.ResponseWriter, req *http.Request, data any, msg string) {
	render.JSON(w, req, okResponse{Success: true, Data: data, Message: msg})
}

func respondFail(w http.ResponseWriter, req *http.Request, status int, msg string) {
	render.Status(req, status)
	render.JSON(w, req, errResponse{Success: false, Message: msg})
}

// respondError maps upstream failures onto status codes.
func respondError(w http.ResponseWriter, req *http.Request, err error) {
	status, msg := http.StatusInternalServerError, err.Error()
	var httpErr *smythos.HTTPError
	switch {
	case errors.Is(err, smythos.ErrUpstreamUnavailable):
		status, msg = http.StatusServiceUnavailable, "External service unavailable"
	case errors.Is(err, smythos.ErrUpstreamTimeout):
		status, msg = http.StatusGatewayTimeout, "Request timeout"
	case errors.As(err, &httpErr):
		status, msg = http.StatusBadGateway, httpErr.Error()
	}
	zap.L().Error("request failed",
		zap.String("path", req.URL.Path),
		zap.String("request_id", middleware.GetReqID(req.Context())),
		zap.Int("status", status),
		zap.Error(err))
	respondFail(w, req, status, msg)
}

// decodeBody reads a JSON request body. An empty body leaves dst untouched.
func decodeBody(req *http.Request, dst any) error {
	if err := render.DecodeJSON(req.Body, dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// fetch calls the agent and returns the raw body with its decoded form.
func (d Deps) fetch(ctx context.Context, endpoint, method string, body any, query url.Values) (string, smythos.UpstreamValue, error) {
	raw, err := d.Upstream.Call(ctx, endpoint, method, body, query)
	if err != nil {
		return "", nil, err
	}
	return raw, smythos.Decode(raw), nil
}

func (d Deps) record(endpoint, queryKey, raw string, tr smythos.Trace) {
	d.Recorder.Record(archive.Entry{
		Endpoint: endpoint,
		QueryKey: queryKey,
		Payload:  raw,
		Trace:    tr,
	})
}
