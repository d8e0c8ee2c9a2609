package route

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Token tags. They are part of the persisted format and must not change.
const (
	TagLogin         = "login"
	TagValidation    = "validation"
	TagScreen1       = "screen1"
	TagScreen2       = "screen2"
	TagScreen2Detail = "screen2Detail"
	TagScreen2Edit   = "screen2Edit"
	TagScreen3       = "screen3"
	TagScreen4       = "screen4"
	TagScreen5       = "screen5"
	TagScreen6       = "screen6"
	TagDetail        = "detail"
	TagDetails       = "details"
	TagCreateItem    = "createItem"
	TagFilter        = "filter"
)

// FormatVersion is written into every structured blob.
const FormatVersion = 2

// ErrMalformedBlob is returned when a blob is neither the structured nor the
// legacy format.
var ErrMalformedBlob = errors.New("malformed route blob")

// Token is the serializable projection of a route.
type Token struct {
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (t Token) String() string {
	if t.Param == "" {
		return t.Tag
	}
	return t.Tag + ":" + t.Param
}

type envelope struct {
	Version int     `json:"version"`
	Tokens  []Token `json:"tokens"`
}

// Marshal encodes tokens in the structured format.
func Marshal(tokens []Token) ([]byte, error) {
	if tokens == nil {
		tokens = []Token{}
	}
	return json.Marshal(envelope{Version: FormatVersion, Tokens: tokens})
}

// Unmarshal decodes a persisted blob. legacy reports that the blob used the
// older bare-string list, which callers migrate by re-saving with Marshal.
func Unmarshal(data []byte) (tokens []Token, legacy bool, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false, ErrMalformedBlob
	}

	switch trimmed[0] {
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
		}
		return env.Tokens, false, nil
	case '[':
		var raw []string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrMalformedBlob, err)
		}
		return ParseLegacy(raw), true, nil
	}
	return nil, false, ErrMalformedBlob
}

// ParseLegacy converts bare legacy strings ("screen2", "screen2Detail:42") to
// tokens. The parameter is everything after the first colon.
func ParseLegacy(raw []string) []Token {
	out := make([]Token, 0, len(raw))
	for _, s := range raw {
		tag, param, _ := strings.Cut(s, ":")
		out = append(out, Token{Tag: tag, Param: param})
	}
	return out
}

// FormatLegacy renders tokens in the legacy bare-string form.
func FormatLegacy(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.String())
	}
	return out
}
