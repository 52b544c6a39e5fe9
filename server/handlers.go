package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/anglify"
	"github.com/ZaguanLabs/anglify/cache"
)

// Response messages of the translate endpoint.
const (
	MsgMissingFields = "Required field(s) missing"
	MsgNoText        = "No text to translate"
	MsgInvalidLocale = "Invalid value for locale field"
	MsgNoChanges     = "Everything looks good to me!"
)

type errorResponse struct {
	Error string `json:"error"`
}

// translateResponse echoes text as received: a string, or the raw JSON value
// when the client sent something else.
type translateResponse struct {
	Text        any                 `json:"text"`
	Translation string              `json:"translation"`
	Spans       []anglify.MatchSpan `json:"spans,omitempty"`
}

// translateRequest holds the request fields. A nil field was absent.
type translateRequest struct {
	text   json.RawMessage
	locale json.RawMessage
}

// TranslateHandler serves POST /api/translate.
type TranslateHandler struct {
	translator *anglify.Translator
	maxBytes   int64
}

// NewTranslateHandler creates a TranslateHandler. Bodies larger than
// maxBytes are rejected as missing fields.
func NewTranslateHandler(translator *anglify.Translator, maxBytes int64) *TranslateHandler {
	return &TranslateHandler{translator: translator, maxBytes: maxBytes}
}

// ServeHTTP validates the request in a fixed order (missing fields, empty
// text, locale) and answers every outcome with 200 JSON.
func (h *TranslateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	req, ok := decodeTranslateRequest(r)
	if !ok || req.text == nil || req.locale == nil {
		writeJSON(w, http.StatusOK, errorResponse{Error: MsgMissingFields})
		return
	}

	var text string
	textIsString := json.Unmarshal(req.text, &text) == nil && req.text[0] == '"'
	if textIsString && text == "" {
		writeJSON(w, http.StatusOK, errorResponse{Error: MsgNoText})
		return
	}

	var locale string
	if err := json.Unmarshal(req.locale, &locale); err != nil {
		writeJSON(w, http.StatusOK, errorResponse{Error: MsgInvalidLocale})
		return
	}
	dir, ok := anglify.ParseDirection(locale)
	if !ok {
		writeJSON(w, http.StatusOK, errorResponse{Error: MsgInvalidLocale})
		return
	}

	if !textIsString {
		// Only strings are translatable; anything else has an empty result.
		writeJSON(w, http.StatusOK, translateResponse{Text: req.text, Translation: ""})
		return
	}

	var metric *servertiming.Metric
	if timing := servertiming.FromContext(r.Context()); timing != nil {
		metric = timing.NewMetric("translate").WithDesc(string(dir)).Start()
	}
	res := h.translator.Translate(text, dir)
	if metric != nil {
		metric.Stop()
	}

	zerolog.Ctx(r.Context()).Debug().
		Str("direction", string(dir)).
		Int("length", len(text)).
		Int("spans", len(res.Spans)).
		Msg("translated")

	resp := translateResponse{Text: text, Translation: MsgNoChanges}
	if res.Changed() {
		resp.Translation = res.Highlighted()
	}
	if r.URL.Query().Get("spans") == "true" {
		resp.Spans = res.Spans
	}

	writeJSON(w, http.StatusOK, resp)
}

// decodeTranslateRequest reads text and locale from a form or JSON body.
// ok is false when the body cannot be parsed.
func decodeTranslateRequest(r *http.Request) (translateRequest, bool) {
	var req translateRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(32 << 10); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, false
		}
		if v, ok := r.PostForm["text"]; ok && len(v) > 0 {
			req.text, _ = json.Marshal(v[0])
		}
		if v, ok := r.PostForm["locale"]; ok && len(v) > 0 {
			req.locale, _ = json.Marshal(v[0])
		}
		return req, true
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return req, false
	}
	req.text = body["text"]
	req.locale = body["locale"]
	return req, true
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	cache cache.TranslationCache
}

// NewHealthHandler creates a HealthHandler. c may be nil.
func NewHealthHandler(c cache.TranslationCache) *HealthHandler {
	return &HealthHandler{cache: c}
}

// HealthResponse is the JSON response for /healthz and /readyz.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
	CacheStats *cache.Stats      `json:"cache_stats,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. It pings the cache backend when it supports
// it: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{"cache": "disabled"}

	if pinger, ok := h.cache.(cache.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("cache ping failed")
			components["cache"] = "down"
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:     "down",
				Components: components,
				Timestamp:  time.Now(),
			})
			return
		}
		components["cache"] = "ok"
	}

	resp := HealthResponse{
		Status:     "ok",
		Components: components,
		Timestamp:  time.Now(),
	}
	if mc, ok := h.cache.(*cache.InMemoryCache); ok {
		stats := mc.Stats()
		resp.CacheStats = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// VersionResponse is the JSON response for /api/version.
type VersionResponse struct {
	Name               string `json:"name"`
	Version            string `json:"version"`
	Commit             string `json:"commit"`
	BuildDate          string `json:"build_date"`
	DictionaryRevision string `json:"dictionary_revision"`
	DictionaryEntries  int    `json:"dictionary_entries"`
}

// versionHandler reports build and dictionary information.
func versionHandler(dicts *anglify.DictionarySet) http.HandlerFunc {
	build := anglify.Build()
	resp := VersionResponse{
		Name:      anglify.Name,
		Version:   anglify.FullVersion(),
		Commit:    build.Commit,
		BuildDate: build.BuildDate,
	}
	if dicts != nil {
		resp.DictionaryRevision = dicts.Revision()
		resp.DictionaryEntries = dicts.Size()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// writeJSON writes v without HTML escaping, so highlight markup reaches
// clients byte for byte.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v) //nolint:errcheck
}
