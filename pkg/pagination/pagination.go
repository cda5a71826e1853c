package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultLimit is the catalog page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many products one page can return.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor marks the last product of a page. Scope is the listing filter the
// cursor was issued for; an empty scope means the unfiltered catalog.
type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        string    `json:"id"`
	Scope     string    `json:"s,omitempty"`
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer returns the normalized limit plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders the cursor as unpadded base64url JSON.
func EncodeCursor(cursor Cursor) string {
	cursor.CreatedAt = cursor.CreatedAt.UTC()
	payload, _ := json.Marshal(cursor)
	return base64.RawURLEncoding.EncodeToString(payload)
}

// ParseCursor decodes a cursor issued for scope. A blank value yields nil.
func ParseCursor(value, scope string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	var cursor Cursor
	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor format: %w", err)
	}
	if cursor.CreatedAt.IsZero() {
		return nil, fmt.Errorf("invalid cursor timestamp")
	}
	if strings.TrimSpace(cursor.ID) == "" {
		return nil, fmt.Errorf("invalid cursor id")
	}
	if cursor.Scope != scope {
		return nil, fmt.Errorf("cursor was issued for %q, not %q", cursor.Scope, scope)
	}
	return &cursor, nil
}
