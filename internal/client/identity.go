package client

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// ViewerID reads the caller id out of a bearer token without checking its
// signature. Only the payload segment is looked at: the header, the
// signature and any registered claims of unexpected shape are ignored. The
// result only drives display state such as "liked"; the server re-verifies
// the token on every mutating call. An empty or unreadable token yields "".
func ViewerID(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return ""
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return ""
	}
	if id, ok := claims["userId"].(string); ok && id != "" {
		return id
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}
