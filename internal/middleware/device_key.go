package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

const DeviceKeyHeader = "X-Device-Key"

// DeviceKey protege los endpoints que llama el hardware (dispense, bpm, reset):
// - Si key == "" => modo dev: deja pasar todo.
// - Si no, exige X-Device-Key (o Authorization: Bearer <key>) igual a key; si no, 401.
func DeviceKey(key string) func(http.Handler) http.Handler {
	key = strings.TrimSpace(key)

	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimSpace(r.Header.Get(DeviceKeyHeader))
			if got == "" {
				got = bearerToken(r.Header.Get("Authorization"))
			}

			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid device key"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
