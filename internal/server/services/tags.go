package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// MaxTags caps the tag list of an entry; extra tags are dropped.
const MaxTags = 25

// TagList decodes tags sent either as a JSON array of strings or as one
// comma-separated string. Decoding does not normalise; see NormalizeTags.
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = nil
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = strings.Split(s, ",")
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return errors.New("tags must be a list of strings or a comma-separated string")
	}
	*t = list
	return nil
}

// NormalizeTags trims every tag, drops the empty ones and keeps at most
// MaxTags. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}
