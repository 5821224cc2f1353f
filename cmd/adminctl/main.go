// adminctl creates an admin account, or promotes an existing one, directly
// against the database. Intended for bootstrap and operations; the HTTP API
// never grants the admin flag.
//
// Usage:
//
//	adminctl -d <dsn> -username "Admin" -handle admin -email admin@example.com
//
// The password is prompted without echo.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/thriftedhq/thrifted/internal/server/config"
	"github.com/thriftedhq/thrifted/internal/server/mail"
	"github.com/thriftedhq/thrifted/internal/server/ratelimit"
	"github.com/thriftedhq/thrifted/internal/server/repositories/repomanager"
	"github.com/thriftedhq/thrifted/internal/server/services"
	"github.com/thriftedhq/thrifted/internal/server/sessions"
)

// readPassword is a seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	dsn := flag.String("d", cfg.DatabaseDSN, "database DSN")
	username := flag.String("username", "", "display name for the admin account")
	handle := flag.String("handle", "", "unique handle for the admin account")
	email := flag.String("email", "", "e-mail for the admin account")
	flag.Parse()

	if *handle == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "usage: adminctl -handle <handle> -email <email> [-username <name>] [-d <dsn>]")
		os.Exit(2)
	}
	if *username == "" {
		*username = *handle
	}

	fmt.Print("Password: ")
	password, err := readPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// the session store, mailer and limiter are unused by EnsureAdmin but
	// required by the service constructor
	store := sessions.NewMemoryStore(cfg.SessionTTL)
	defer store.Close()
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	svc := services.NewUserService(db, rm, store, mailer,
		ratelimit.New(cfg.LoginRateAttempts, cfg.LoginRateWindow), cfg)

	user, created, err := svc.EnsureAdmin(ctx, *username, *handle, *email, string(password))
	if err != nil {
		log.Fatalf("ensuring admin: %v", err)
	}

	if created {
		fmt.Printf("admin user %q created\n", user.Handle)
	} else {
		fmt.Printf("existing user %q promoted to admin\n", user.Handle)
	}
}
