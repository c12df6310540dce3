// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command aureluxctl is the operator tool for an Aurelux deployment.
//
// Subcommands:
//   - admin:           create or update an admin account, optionally enrolling TOTP
//   - setup-mongo:     create the MongoDB indexes
//   - migrate-content: import a legacy content JSON file into the content store
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"aurelux/internal/auth"
	"aurelux/internal/backend"
	"aurelux/internal/config"
	"aurelux/internal/content"
	"aurelux/internal/models"
)

// errUsage marks command-line mistakes; usage has already been printed.
var errUsage = errors.New("usage")

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run dispatches args to a subcommand.
func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(out)
		return errUsage
	}

	switch args[0] {
	case "admin":
		return runAdmin(ctx, args[1:], out)
	case "setup-mongo":
		return runSetupMongo(ctx, args[1:], out)
	case "migrate-content":
		return runMigrateContent(ctx, args[1:], out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", args[0])
		printUsage(out)
		return errUsage
	}
}

func printUsage(out io.Writer) {
	fmt.Fprint(out, `Usage: aureluxctl <command> [flags]

Commands:
  admin            create or update an admin account
  setup-mongo      create MongoDB indexes
  migrate-content  import a legacy content JSON file

Run "aureluxctl <command> -h" for command flags.
`)
}

// adminFlags are the admin subcommand options.
type adminFlags struct {
	email    string
	password string
	totp     bool
	qrPath   string
	inactive bool
}

func parseAdminFlags(args []string, out io.Writer) (*adminFlags, error) {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(out)
	f := &adminFlags{}
	fs.StringVar(&f.email, "email", "", "Admin email (required)")
	fs.StringVar(&f.password, "password", "", "Admin password (defaults to $ADMIN_PASSWORD)")
	fs.BoolVar(&f.totp, "totp", false, "Enrol a TOTP authenticator and write its QR code")
	fs.StringVar(&f.qrPath, "qr", "", "Path of the TOTP QR PNG (default <email>-totp.png)")
	fs.BoolVar(&f.inactive, "inactive", false, "Store the account as disabled")
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}

	f.email = strings.ToLower(strings.TrimSpace(f.email))
	if f.password == "" {
		f.password = os.Getenv("ADMIN_PASSWORD")
	}
	if f.email == "" || f.password == "" {
		fmt.Fprintln(out, "admin: -email and -password (or ADMIN_PASSWORD) are required")
		fs.Usage()
		return nil, errUsage
	}
	if f.totp && f.qrPath == "" {
		f.qrPath = strings.NewReplacer("@", "_at_", "/", "_").Replace(f.email) + "-totp.png"
	}
	return f, nil
}

func runAdmin(ctx context.Context, args []string, out io.Writer) error {
	f, err := parseAdminFlags(args, out)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close(context.Background())

	hash, err := auth.HashPassword(f.password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &models.Admin{
		Email:        f.email,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
		IsActive:     !f.inactive,
		Audit:        models.Audit{CreatedAt: now, CreatedBy: "aureluxctl", UpdatedAt: now, UpdatedBy: "aureluxctl"},
	}

	if f.totp {
		key, err := auth.GenerateTOTP(f.email)
		if err != nil {
			return err
		}
		png, err := auth.TOTPQRCode(key, 256)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.qrPath, png, 0o600); err != nil {
			return fmt.Errorf("write qr code: %w", err)
		}
		secret := key.Secret()
		admin.TOTPSecret = &secret
		admin.TOTPEnabled = true
		fmt.Fprintf(out, "TOTP enrolled. Scan %s or enter the secret %s\n", f.qrPath, secret)
	}

	if err := b.Admins.Upsert(ctx, admin); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}
	fmt.Fprintf(out, "admin %s saved (%s backend)\n", f.email, b.Driver)
	return nil
}

func runSetupMongo(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("setup-mongo", flag.ContinueOnError)
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ContentStore != config.StoreMongo {
		return fmt.Errorf("setup-mongo needs CONTENT_STORE_DRIVER=mongo, got %q", cfg.ContentStore)
	}

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close(context.Background())

	if err := b.EnsureIndexes(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "indexes ready in %s\n", cfg.MongoDBName)
	return nil
}

func runMigrateContent(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate-content", flag.ContinueOnError)
	fs.SetOutput(out)
	file := fs.String("file", "data/content.json", "Legacy content JSON file")
	actor := fs.String("actor", "migration@aurelux.local", "Actor recorded in the activity log")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if _, err := os.Stat(*file); err != nil {
		return fmt.Errorf("content file: %w", err)
	}
	legacy, err := content.NewFileStore(*file).Read()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close(context.Background())

	if err := b.EnsureIndexes(ctx); err != nil {
		return err
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = auth.DevSecret
	}
	manager, _, err := backend.Media(cfg, secret)
	if err != nil {
		return err
	}

	written, err := b.Repository(manager).WriteFullContent(ctx, legacy, *actor)
	if err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	fmt.Fprintf(out, "migrated %d products and settings from %s\n", len(written.Products), *file)
	return nil
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(".env.local", ".env"); err != nil {
		return nil, err
	}
	return config.Load()
}

func openBackend(ctx context.Context) (*backend.Backend, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return backend.Open(ctx, cfg)
}
