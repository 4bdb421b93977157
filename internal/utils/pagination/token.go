package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// EncodeObligationCursor creates an opaque token pointing after the given obligation in
// (period, due date, obligation ID) order.
func EncodeObligationCursor(period, dueDate time.Time, obligationID string) string {
	return EncodeMultiFieldToken(period.Format(dateFormat), dueDate.Format(dateFormat), obligationID)
}

// DecodeObligationCursor parses a token produced by EncodeObligationCursor.
func DecodeObligationCursor(token string) (time.Time, time.Time, string, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	if len(parts) != 3 || parts[2] == "" {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	period, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (period parse): %w", err)
	}
	dueDate, err := time.Parse(dateFormat, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (due date parse): %w", err)
	}
	return period, dueDate, parts[2], nil
}

// EncodeMultiFieldToken creates a URL-safe token with any number of string fields.
func EncodeMultiFieldToken(fields ...string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken decodes a token into its component fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
