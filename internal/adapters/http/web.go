package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"referencer/internal/adapters/email"
	"referencer/internal/adapters/http/middleware"
	"referencer/internal/adapters/http/perf"
	accountStore "referencer/internal/adapters/storage/account"
	clipStore "referencer/internal/adapters/storage/clip"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	ClipStore    clipStore.Store
	TagStore     clipStore.TagStore
}

// loadCSRFKey reads the CSRF secret from REFERENCER_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("REFERENCER_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("REFERENCER_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("REFERENCER_ENV") == "production" {
		log.Fatal("REFERENCER_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set REFERENCER_CSRF_KEY for production.")
	return key
}

// extensionOrigins returns the browser-extension origins allowed to call the
// API cross-origin, from the comma-separated REFERENCER_EXTENSION_ORIGINS.
func extensionOrigins() []string {
	raw := os.Getenv("REFERENCER_EXTENSION_ORIGINS")
	if raw == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("REFERENCER_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> CORS -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CORS(extensionOrigins()),
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// registerRoutes attaches all handlers to the mux.
// API routes speak JSON to the extension; page routes render HTML.
func registerRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("/api/auth/sign-up", handleAPISignUp)
	mux.HandleFunc("/api/auth/sign-in", handleAPISignIn)
	mux.HandleFunc("/api/auth/sign-out", handleAPISignOut)
	mux.HandleFunc("/api/auth/me", handleAPIMe)

	// Clips
	mux.Handle("/api/clips", middleware.RequireAuth(http.HandlerFunc(handleAPIClips)))
	mux.Handle("/api/clips/", middleware.RequireAuth(http.HandlerFunc(handleAPIClipByID)))

	// Tags
	mux.Handle("/api/tags", middleware.RequireAuth(http.HandlerFunc(handleAPITags)))
	mux.Handle("/api/tags/", middleware.RequireAuth(http.HandlerFunc(handleAPITagByID)))

	// Diagnostics
	mux.Handle("/api/perf", middleware.RequireAuth(http.HandlerFunc(handleAPIPerf)))

	// Pages
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/signup", handleSignup)
	mux.HandleFunc("/logout", handleLogout)
	mux.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/clips/", middleware.RequireAuth(http.HandlerFunc(handleClipEditPage)))
	mux.HandleFunc("/share/", handleSharePage)
}
