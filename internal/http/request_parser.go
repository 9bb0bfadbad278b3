package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"artha/internal/core"
)

// errBadRequest marks a body that could not be decoded at all.
var errBadRequest = errors.New("malformed request body")

// decodeJSON reads a single JSON value from the body into dst, capped at
// maxBytes. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: body exceeds %d bytes", errBadRequest, maxErr.Limit)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty body", errBadRequest)
		default:
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON value", errBadRequest)
	}
	return nil
}

type dateRangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// parse turns the wire dates into a validated range.
func (d dateRangeRequest) parse() (core.Date, core.Date, error) {
	start, err := core.ParseDate(d.StartDate)
	if err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := core.ParseDate(d.EndDate)
	if err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("end_date: %w", err)
	}
	if err := core.ValidateRange(start, end); err != nil {
		return core.Date{}, core.Date{}, err
	}
	return start, end, nil
}

// pathDate parses the {date} path segment.
func pathDate(r *http.Request) (core.Date, error) {
	return core.ParseDate(strings.TrimSpace(r.PathValue("date")))
}
