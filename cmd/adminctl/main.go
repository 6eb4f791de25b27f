// adminctl talks to the user store directly, bypassing the HTTP endpoint.
// It covers the operator tasks: registering accounts, unlocking accounts
// that hit the strike limit, deleting accounts and listing them.
//
// Usage:
//
//	adminctl add-user -d <dsn> -u <username> -b <yyyy-mm-dd> [-l USER|TEACHER|ADMIN]
//	adminctl unlock   -d <dsn> -u <username>
//	adminctl delete   -d <dsn> -u <username>
//	adminctl list     -d <dsn>
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/logging"
	"github.com/mathrevise/backend/internal/server/config"
	"github.com/mathrevise/backend/internal/server/models"
	"github.com/mathrevise/backend/internal/server/repositories/repomanager"
	"github.com/mathrevise/backend/internal/server/services"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: adminctl <add-user|unlock|delete|list> [flags]")
}

func run(command string, args []string) error {
	defaults := &config.Config{}
	defaults.LoadDefaults()

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	dsn := fs.String("d", defaults.DatabaseDSN, "PostgreSQL DSN")
	username := fs.String("u", "", "username")
	dob := fs.String("b", "", "date of birth (YYYY-MM-DD)")
	level := fs.String("l", string(models.AccessUser), "access level (USER, TEACHER or ADMIN)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rm := repomanager.NewPostgresRepositoryManager()
	svc := services.NewAuthService(db, rm, defaults, logger)

	switch command {
	case "add-user":
		return addUser(ctx, svc, *username, *dob, *level)
	case "unlock":
		return unlock(ctx, svc, *username)
	case "delete":
		return deleteUser(ctx, svc, *username)
	case "list":
		return list(ctx, svc)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func addUser(ctx context.Context, svc *services.AuthService, username, dob, level string) error {
	if username == "" {
		return fmt.Errorf("-u is required")
	}
	dateOfBirth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return fmt.Errorf("-b must be YYYY-MM-DD")
	}
	accessLevel := models.AccessLevel(level)
	if !accessLevel.Valid() {
		return fmt.Errorf("unknown access level %q", level)
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	in := &services.NewUser{
		Username:    username,
		Password:    string(password),
		DateOfBirth: dateOfBirth,
		AccessLevel: accessLevel,
	}
	if err := svc.AddUser(ctx, in); err != nil {
		return err
	}

	fmt.Printf("user %q created\n", username)
	return nil
}

func promptPassword() ([]byte, error) {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password must not be empty")
	}

	fmt.Print("Repeat password: ")
	repeat, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(repeat)

	if !bytes.Equal(password, repeat) {
		common.WipeByteArray(password)
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

func unlock(ctx context.Context, svc *services.AuthService, username string) error {
	if username == "" {
		return fmt.Errorf("-u is required")
	}
	if err := svc.UnlockUser(ctx, username); err != nil {
		return err
	}
	fmt.Printf("user %q unlocked\n", username)
	return nil
}

func deleteUser(ctx context.Context, svc *services.AuthService, username string) error {
	if username == "" {
		return fmt.Errorf("-u is required")
	}
	if err := svc.DeleteUser(ctx, username); err != nil {
		return err
	}
	fmt.Printf("user %q deleted\n", username)
	return nil
}

func list(ctx context.Context, svc *services.AuthService) error {
	users, err := svc.ListUsers(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-20s %-12s %-10s %7s  %s\n", "USERNAME", "BORN", "LEVEL", "STRIKES", "LOCKED")
	for _, u := range users {
		locked := ""
		if u.Strikes >= services.LockThreshold {
			locked = "yes"
		}
		fmt.Printf("%-20s %-12s %-10s %7d  %s\n",
			u.Username, u.DateOfBirth.Format("2006-01-02"), u.AccessLevel, u.Strikes, locked)
	}
	return nil
}
