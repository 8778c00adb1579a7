package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	doorStore "adventcal/internal/adapters/storage/door"
	"adventcal/internal/adapters/http/middleware"
	"adventcal/internal/adapters/qr"
	"adventcal/internal/domain/admin"
	"adventcal/internal/domain/door"
)

// Deps holds everything the web surface needs: the message store, the
// immutable calendar, the admin secret and the QR encoder.
type Deps struct {
	Store    doorStore.Store
	Calendar door.Calendar
	Secret   admin.Secret
	Encoder  qr.Encoder
}

// Global deps instance (set by NewMux)
var deps *Deps

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// loadCSRFKey reads the CSRF secret from ADVENT_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey(production bool) []byte {
	if keyHex := os.Getenv("ADVENT_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("ADVENT_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if production {
		log.Fatal("ADVENT_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set ADVENT_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(d *Deps, production bool) http.Handler {
	deps = d
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = production

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := loadCSRFKey(production)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: RequestLog -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, production),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.RequestLog,
	)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleHome)
	mux.HandleFunc("/Door_Message", handleDoorMessage)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.Handle("/admin", middleware.RequireAdmin(http.HandlerFunc(handleAdmin)))
	mux.Handle("/admin/save", middleware.RequireAdmin(http.HandlerFunc(handleAdminSave)))
	mux.Handle("/admin/qr-bundle", middleware.RequireAdmin(http.HandlerFunc(handleQRBundle)))
}
