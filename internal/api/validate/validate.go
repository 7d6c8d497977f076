package validate

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/michela/coach/internal/model"
)

// Request limits.
const (
	MaxQueryLen   = 500
	MaxMessageLen = 4000
	MaxListLimit  = 100
)

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return model.NewValidationError(field, "is required")
	}
	return nil
}

// MaxLen counts runes, so Japanese input is measured in characters.
func MaxLen(field, v string, limit int) error {
	if utf8.RuneCountInString(v) > limit {
		return model.NewValidationError(field, "exceeds "+strconv.Itoa(limit)+" characters")
	}
	return nil
}

// OptionalDate accepts an empty value or a YYYY-MM-DD date.
func OptionalDate(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, v); err != nil {
		return model.NewValidationError(field, "must be a YYYY-MM-DD date")
	}
	return nil
}

// QueryInt reads a non-negative integer query parameter; absent means def.
func QueryInt(q url.Values, field string, def, max int) (int, error) {
	raw := q.Get(field)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, model.NewValidationError(field, "must be a non-negative integer")
	}
	if max > 0 && n > max {
		return 0, model.NewValidationError(field, "must not exceed "+strconv.Itoa(max))
	}
	return n, nil
}

// -------- Request specific helpers ----------

func Chat(message string) error {
	if err := NonEmpty("message", message); err != nil {
		return err
	}
	return MaxLen("message", message, MaxMessageLen)
}

func ResearchSearch(query string, offset int) error {
	if err := NonEmpty("query", query); err != nil {
		return err
	}
	if err := MaxLen("query", query, MaxQueryLen); err != nil {
		return err
	}
	if offset < 0 {
		return model.NewValidationError("offset", "must not be negative")
	}
	return nil
}

// ArticleID accepts numeric PubMed identifiers only.
func ArticleID(id string) error {
	if id == "" {
		return model.NewValidationError("pmid", "is required")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return model.NewValidationError("pmid", "must be numeric")
		}
	}
	return nil
}
