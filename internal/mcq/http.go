package mcq

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mcq-platform/internal/auth"
	"github.com/gokatarajesh/mcq-platform/internal/logging"
	"github.com/gokatarajesh/mcq-platform/internal/metrics"
	httperrors "github.com/gokatarajesh/mcq-platform/pkg/http/errors"
)

// HTTPHandler exposes the read operations under /mcq-get/.
type HTTPHandler struct {
	svc     *Service
	metrics *metrics.HTTP
}

// NewHTTPHandler constructs the handler; m may be nil.
func NewHTTPHandler(svc *Service, m *metrics.HTTP) *HTTPHandler {
	return &HTTPHandler{svc: svc, metrics: m}
}

// Register mounts the endpoints. Bare /mcq-get and any other path under it are not found.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /mcq-get/schedule", h.HandleSchedule)
	mux.HandleFunc("GET /mcq-get/question", h.HandleQuestion)
	mux.HandleFunc("GET /mcq-get/list", h.HandleList)
	mux.HandleFunc("/mcq-get", h.HandleNotFound)
	mux.HandleFunc("/mcq-get/", h.HandleNotFound)
}

// HandleSchedule serves GET /mcq-get/schedule?topic=...
func (h *HTTPHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		h.fail(w, r, "schedule", start, Validation(`"topic" is required`))
		return
	}

	res, err := h.svc.Schedule(r.Context(), topic, auth.FromContext(r.Context()))
	if err != nil {
		h.fail(w, r, "schedule", start, err)
		return
	}
	h.ok(w, "schedule", start, res)
}

// HandleQuestion serves GET /mcq-get/question?id=...
func (h *HTTPHandler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		h.fail(w, r, "question", start, Validation(`"id" is required`))
		return
	}

	view, err := h.svc.Question(r.Context(), id, auth.FromContext(r.Context()))
	if err != nil {
		h.fail(w, r, "question", start, err)
		return
	}
	h.ok(w, "question", start, map[string]interface{}{"response": view})
}

// HandleList serves GET /mcq-get/list?week=&year=&lang=&topic=&author=&cursor=
func (h *HTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	filters, err := ParseListFilters(r.URL.Query())
	if err != nil {
		h.fail(w, r, "list", start, err)
		return
	}

	res, err := h.svc.List(r.Context(), filters, auth.FromContext(r.Context()))
	if err != nil {
		h.fail(w, r, "list", start, err)
		return
	}
	h.ok(w, "list", start, res)
}

// HandleNotFound answers unknown paths under /mcq-get/.
func (h *HTTPHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.metrics.Observe("unknown", KindNotFound.String(), 0)
	httperrors.RespondNotFound(w, "Not found")
}

// ParseListFilters validates listing query parameters. Empty values are treated as absent.
func ParseListFilters(values url.Values) (ListFilters, error) {
	f := ListFilters{
		Lang:   strings.TrimSpace(values.Get("lang")),
		Topic:  strings.TrimSpace(values.Get("topic")),
		Author: strings.TrimSpace(values.Get("author")),
	}

	var err error
	if f.Week, err = parseIntParam(values, "week", 1, 53); err != nil {
		return ListFilters{}, err
	}
	if f.Year, err = parseIntParam(values, "year", 1000, 9999); err != nil {
		return ListFilters{}, err
	}
	if raw := strings.TrimSpace(values.Get("cursor")); raw != "" {
		f.Cursor, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || f.Cursor <= 0 {
			return ListFilters{}, Validation(`"cursor" must be a positive unix timestamp`)
		}
	}
	return f, nil
}

func parseIntParam(values url.Values, name string, lo, hi int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, Validation(`"` + name + `" must be an integer between ` + strconv.Itoa(lo) + " and " + strconv.Itoa(hi))
	}
	return n, nil
}

func (h *HTTPHandler) ok(w http.ResponseWriter, endpoint string, start time.Time, payload interface{}) {
	h.metrics.Observe(endpoint, "ok", time.Since(start))
	httperrors.RespondJSON(w, http.StatusOK, payload)
}

// fail maps err to the error envelope. Only internal failures are logged as errors; the rest
// are expected outcomes.
func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, endpoint string, start time.Time, err error) {
	kind := KindOf(err)
	h.metrics.Observe(endpoint, kind.String(), time.Since(start))

	logger := logging.FromContext(r.Context())
	message := err.Error()
	var domainErr *Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	if kind == KindInternal {
		logger.Error().Stack().Err(err).Str("endpoint", endpoint).Msg("request failed")
		message = "Internal server error"
	} else {
		logEvent(logger, endpoint, kind)
	}

	httperrors.RespondError(w, statusFor(kind), kind.String(), message)
}

func logEvent(logger zerolog.Logger, endpoint string, kind Kind) {
	logger.Debug().Str("endpoint", endpoint).Str("outcome", kind.String()).Msg("request rejected")
}

func statusFor(kind Kind) int {
	switch kind {
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyPosted:
		return http.StatusConflict
	case KindNoSchedule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
