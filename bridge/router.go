package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/logging"
)

// Router is an http.Handler dispatching requests to mounted contracts.
type Router struct {
	bridge *Bridge
	cfg    *config
	routes []*Route
}

// Routes returns the mounted routes in matching order.
func (rt *Router) Routes() []*Route {
	return append([]*Route(nil), rt.routes...)
}

// ServeHTTP resolves the contract parameters from the request, invokes the
// handler and writes its processed result as JSON.
func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	id := req.Header.Get(rt.cfg.requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(rt.cfg.requestIDHeader, id)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	route, params, allowed := rt.match(req.Method, req.URL.EscapedPath())

	label := "unmatched"
	if route != nil {
		label = route.Contract.Name
	}
	if m := rt.bridge.metrics; m != nil {
		m.inFlight.Inc()
		defer m.inFlight.Dec()
	}
	defer func() {
		rt.bridge.metrics.observe(label, req.Method, rec.status, time.Since(start))
	}()

	ctx := logging.ContextWith(req.Context(), "request_id", id)
	log := logging.NewContextLogger(ctx, rt.cfg.logger)

	if rt.cfg.limiter != nil && !rt.cfg.limiter.Allow() {
		writeError(rec, http.StatusTooManyRequests, CodeRateLimited, "too many requests", id, "")
		return
	}

	if route == nil {
		switch {
		case len(allowed) > 0:
			rec.Header().Set("Allow", strings.Join(allowed, ", "))
			writeError(rec, http.StatusMethodNotAllowed, CodeMethodNotAllowed,
				fmt.Sprintf("method %s is not allowed", req.Method), id, "")
		case rt.cfg.notFound != nil:
			rt.cfg.notFound.ServeHTTP(rec, req)
		default:
			writeError(rec, http.StatusNotFound, CodeNotFound,
				fmt.Sprintf("no contract serves %s", req.URL.Path), id, "")
		}
		log.Debug("unmatched request", "method", req.Method, "path", req.URL.Path, "status", rec.status)
		return
	}

	ctx = logging.ContextWith(ctx, "contract", route.Contract.Name)
	log = logging.NewContextLogger(ctx, rt.cfg.logger)
	ctx = withRequest(ctx, &RequestInfo{
		ID:         id,
		Route:      route,
		PathParams: params,
		Header:     req.Header,
		RemoteAddr: req.RemoteAddr,
	})

	result, err := rt.serve(ctx, rec, req, route, params)
	if err != nil {
		rt.fail(rec, log, id, err)
		return
	}
	writeJSON(rec, http.StatusOK, result)
	log.Debug("served request", "status", rec.status, "duration", time.Since(start))
}

func (rt *Router) serve(ctx context.Context, w http.ResponseWriter, req *http.Request, route *Route, params map[string]string) (any, error) {
	c := route.Contract

	var body any
	if needsBody(c) {
		var err error
		if body, err = rt.readBody(w, req); err != nil {
			return nil, err
		}
	}

	args, err := c.ExtractParameters(req.URL.Query(), params, body, req.Header)
	if err != nil {
		return nil, err
	}

	out, err := rt.invoke(ctx, c, args)
	if err != nil {
		return nil, err
	}
	return c.ProcessResult(out)
}

func (rt *Router) invoke(ctx context.Context, c *contract.Contract, args contract.Args) (out any, err error) {
	if rt.cfg.handlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.cfg.handlerTimeout)
		defer cancel()
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("bridge: handler panic: %v", p)
		}
	}()

	out, err = c.Invoke(ctx, args)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
		err = fmt.Errorf("%w: %w", errTimeout, err)
	}
	return out, err
}

func needsBody(c *contract.Contract) bool {
	for _, p := range c.Params {
		if p.Source.FromBody() {
			return true
		}
	}
	return false
}

// readBody decodes the JSON request body. An empty body decodes to an empty
// object.
func (rt *Router) readBody(w http.ResponseWriter, req *http.Request) (any, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return map[string]any{}, nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, req.Body, rt.cfg.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w (limit %d bytes)", errBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %w", errBadBody, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadBody, err)
	}
	return body, nil
}

func (rt *Router) fail(w http.ResponseWriter, log logging.Logger, id string, err error) {
	status, code := StatusFor(err)

	var param string
	var paramErr *contracterrors.ParamError
	if errors.As(err, &paramErr) {
		param = paramErr.Name
	}

	msg := err.Error()
	var httpErr *HTTPError
	if status >= http.StatusInternalServerError && code == CodeHandler && !errors.As(err, &httpErr) {
		// Unclassified handler failures keep their details in the log.
		msg = http.StatusText(status)
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "code", code, "error", err)
	} else {
		log.Debug("request rejected", "status", status, "code", code, "error", err)
	}
	writeError(w, status, code, msg, id, param)
}

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Param     string `json:"param,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg, id, param string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code, Param: param, RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorBody{Error: err.Error(), Code: CodeInternal})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
