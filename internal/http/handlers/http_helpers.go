package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/order-desk/internal/logging"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, ErrorResponse{Error: msg})
}

// upstreamStatus maps a shop API failure to the status the panel
// answers with: client errors pass through, everything else is a bad
// gateway.
func upstreamStatus(err error) (int, string) {
	if shopapi.IsNetwork(err) {
		return http.StatusBadGateway, "shop API unreachable"
	}
	if apiErr, ok := shopapi.AsAPIError(err); ok {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, apiErr.Message
		}
		return http.StatusBadGateway, apiErr.Message
	}
	if errors.Is(err, shopapi.ErrInvalidResponse) {
		return http.StatusBadGateway, "invalid response from shop API"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := upstreamStatus(err)
	if status >= 500 {
		logging.WithContext(r.Context()).WithError(err).Error("shop API call failed")
	}
	writeError(w, status, msg)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func queryInt(r *http.Request, name string) (*int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

func queryInt64(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

// queryTime parses an RFC3339 timestamp or a plain date. A plain date
// is midnight in location.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	ts, _, err := parseQueryTime(r, name)
	return ts, err
}

// queryUntil is queryTime for upper bounds: a plain date covers the
// whole day, up to its last nanosecond.
func queryUntil(r *http.Request, name string) (*time.Time, error) {
	ts, dateOnly, err := parseQueryTime(r, name)
	if err != nil || ts == nil || !dateOnly {
		return ts, err
	}
	end := ts.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end, nil
}

func parseQueryTime(r *http.Request, name string) (*time.Time, bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, false, nil
	}

	// Query decoding turns the "+" of a zone offset into a space.
	// Example: 2025-07-03T17:44:03+02:00 arrives as 2025-07-03T17:44:03 02:00
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}

	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return &ts, false, nil
	}
	if ts, err := time.ParseInLocation(time.DateOnly, s, location); err == nil {
		return &ts, true, nil
	}
	return nil, false, fmt.Errorf("invalid %s date format", name)
}

// pagination reads the optional offset and limit query parameters.
func pagination(r *http.Request) (offset, limit *int, err error) {
	if offset, err = queryInt(r, "offset"); err != nil {
		return nil, nil, err
	}
	if limit, err = queryInt(r, "limit"); err != nil {
		return nil, nil, err
	}
	if limit != nil && *limit <= 0 {
		return nil, nil, errors.New("limit must be greater than zero")
	}
	if offset != nil && *offset < 0 {
		return nil, nil, errors.New("offset must be zero or positive")
	}
	return offset, limit, nil
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	return v
}
