package search

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

type Person struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	CurrentTitle string  `json:"current_title"`
	Confidence   float64 `json:"confidence"`
	SourceURL    string  `json:"source_url"`
}

// Response is the body returned by the search endpoint. Success tells which
// of Person or Error is meaningful. AllSources and Suggestions are kept raw
// since their shape varies between backends.
type Response struct {
	Success     Flag            `json:"success"`
	Person      *Person         `json:"person,omitempty"`
	SourcesUsed SourcesUsed     `json:"sources_used,omitempty"`
	Error       string          `json:"error,omitempty"`
	AllSources  json.RawMessage `json:"all_sources,omitempty"`
	Suggestions json.RawMessage `json:"suggestions,omitempty"`

	StatusCode int    `json:"-"`
	RequestID  string `json:"-"`
}

// Flag decodes the loosely typed success indicator. Booleans are taken as is,
// numbers are true when non-zero, strings when non-empty and null is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty success flag")
	}

	switch data[0] {
	case 'n':
		*f = false
	case 't':
		*f = true
	case 'f':
		*f = false
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WithStack(err)
		}
		*f = s != ""
	case '{', '[':
		*f = true
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return errors.Wrapf(err, "invalid success flag %q", data)
		}
		*f = n != 0
	}

	return nil
}

// SourcesUsed holds the sources_used field, which the backend sends either
// as a number or as a free-form label.
type SourcesUsed string

func (s *SourcesUsed) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return errors.WithStack(err)
		}
		*s = SourcesUsed(label)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(err, "sources_used must be a number or a string, got %s", data)
	}
	*s = SourcesUsed(n.String())
	return nil
}

func (s SourcesUsed) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(s), 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(s))
}

func (s SourcesUsed) String() string {
	return string(s)
}

func decodeResponse(data []byte) (*Response, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty response body")
	}
	if data[0] != '{' {
		return nil, errors.Errorf("response is not a JSON object: %s", truncate(string(data), 80))
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, "could not decode response")
	}

	if resp.Success && resp.Person == nil {
		return nil, errors.New("success response is missing the person record")
	}

	return &resp, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
