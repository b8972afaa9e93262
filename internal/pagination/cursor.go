// Package pagination implements the opaque keyset cursor used by paginated
// listings. The cursor records the (created_at, id) pair of the last item on
// a page; the next page contains only strictly older rows. Carrying the id
// alongside the timestamp is what keeps rows with identical created_at from
// being skipped or duplicated across page boundaries.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rescuefeed/internal/domain"
)

// Cursor is a position in a listing ordered by (created_at DESC, id DESC).
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Encode serializes the cursor into an opaque URL-safe token. Timestamps are
// carried at microsecond precision, matching timestamptz exactly, so the
// round-trip through the token never moves the page boundary.
func Encode(c Cursor) string {
	raw := strconv.FormatInt(c.CreatedAt.UnixMicro(), 10) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode. Malformed tokens wrap
// domain.ErrValidation so handlers answer 400 rather than 500; that includes
// a non-UUID id, which would otherwise blow up the ::uuid cast in SQL.
func Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	us, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor timestamp", domain.ErrValidation)
	}
	if err := uuid.Validate(parts[1]); err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor id", domain.ErrValidation)
	}
	return Cursor{CreatedAt: time.UnixMicro(us).UTC(), ID: parts[1]}, nil
}
