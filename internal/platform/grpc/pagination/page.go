// Package pagination normalizes list request paging for the ledger API.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// cursorPrefix marks an id cursor inside a page token.
const cursorPrefix = "after:"

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// OrderByConfig configures order_by validation.
type OrderByConfig struct {
	Default string
	Allowed []string
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int32, cfg PageSizeConfig) int {
	pageSize := int(value)
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// NormalizeOrderBy validates order_by and applies defaults. Fields compare
// case-insensitively and an explicit " asc" suffix is accepted.
func NormalizeOrderBy(orderBy string, cfg OrderByConfig) (string, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(orderBy), " "))
	normalized = strings.TrimSuffix(normalized, " asc")
	if normalized == "" {
		return cfg.Default, nil
	}
	for _, allowed := range cfg.Allowed {
		if normalized == allowed {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("invalid order_by: %s", orderBy)
}

// EncodeCursor returns the opaque page token resuming after id.
func EncodeCursor(id uint64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.FormatUint(id, 10)))
}

// DecodeCursor returns the id a page token resumes after. An empty token
// starts from the beginning.
func DecodeCursor(token string) (uint64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("decode page token: %w", err)
	}
	value, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("page token is not a cursor")
	}
	id, err := strconv.ParseUint(value, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("page token id: %w", err)
	}
	return id, nil
}
