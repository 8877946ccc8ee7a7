package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "referencer/internal/adapters/email"
	web "referencer/internal/adapters/http"
	"referencer/internal/adapters/http/perf"
	"referencer/internal/adapters/storage"
	accountStore "referencer/internal/adapters/storage/account"
	clipStorePkg "referencer/internal/adapters/storage/clip"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// WAL mode, foreign keys, and busy timeout; foreign keys carry the
	// clip_tag cascades so they are not optional.
	dbPath := envOrDefault("REFERENCER_DB", "referencer.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		AccountStore: accountStore.NewSQLiteStore(timedDB),
		ClipStore:    clipStorePkg.NewSQLiteStore(timedDB),
		TagStore:     clipStorePkg.NewSQLiteTagStore(timedDB),
	}

	// Email sender: Resend when a key is configured, noop otherwise
	resendKey := os.Getenv("REFERENCER_RESEND_KEY")
	emailFrom := envOrDefault("REFERENCER_EMAIL_FROM", "Referencer <noreply@referencer.app>")
	emailReply := envOrDefault("REFERENCER_REPLY_TO", "support@referencer.app")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("REFERENCER_ENV") == "production" {
			log.Println("WARNING: REFERENCER_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set REFERENCER_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("REFERENCER_ADDR", ":8080")
	log.Printf("Referencer %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("REFERENCER_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
