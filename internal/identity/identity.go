// Package identity extracts the player identity the messaging layer
// attaches to each request.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// PlayerIDHeader carries the stable numeric account id.
	PlayerIDHeader = "X-Player-ID"
	// PlayerNameHeader carries the free-text display name.
	PlayerNameHeader = "X-Player-Name"

	maxNameLength = 128
)

// ErrMissingUser indicates the request carried no resolvable player
// identity. Fatal to that command only; nothing is mutated.
var ErrMissingUser = errors.New("missing player identity")

type contextKey int

const (
	playerIDKey contextKey = iota
	playerNameKey
)

// PlayerIDFromContext extracts the player id from the request context.
// Returns 0 when no identity was attached.
func PlayerIDFromContext(ctx context.Context) uint64 {
	if v, ok := ctx.Value(playerIDKey).(uint64); ok {
		return v
	}
	return 0
}

// PlayerNameFromContext extracts the display name from the request
// context.
func PlayerNameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(playerNameKey).(string); ok {
		return v
	}
	return ""
}

// Require returns the player identity or ErrMissingUser. The display
// name falls back to a derived placeholder when the header is absent,
// matching chat platforms where an id always exists but a display name
// may not.
func Require(ctx context.Context) (uint64, string, error) {
	id := PlayerIDFromContext(ctx)
	if id == 0 {
		return 0, "", ErrMissingUser
	}
	name := PlayerNameFromContext(ctx)
	if name == "" {
		name = "player-" + strconv.FormatUint(id, 10)
	}
	return id, name, nil
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		// Cut on a rune boundary so a multi-byte display name never
		// ends up as invalid UTF-8 in the snapshot.
		cut := maxNameLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}

// Middleware parses the identity headers into the request context.
// Requests without a parseable id pass through with no identity;
// handlers that need one call Require and reject the command there.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if raw := r.Header.Get(PlayerIDHeader); raw != "" {
				if id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64); err == nil && id != 0 {
					ctx = context.WithValue(ctx, playerIDKey, id)
					if name := sanitizeName(r.Header.Get(PlayerNameHeader)); name != "" {
						ctx = context.WithValue(ctx, playerNameKey, name)
					}
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
