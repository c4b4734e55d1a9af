package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"finsight/internal/auth"
	"finsight/internal/config"
	"finsight/internal/db"
	"finsight/internal/store"
	"finsight/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type newUser struct {
	name     string
	email    string
	password string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	user, err := parse(args, stdin, stdout, stderr)
	if err != nil {
		return err
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer database.Close()

	id, err := create(ctx, db.NewTxRunner(database), store.NewUserStore(database), store.NewAuditStore(database), user)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "User %s created with ID %s\n", user.email, id)
	return nil
}

// parse reads flags and prompts for a password when none was given.
func parse(args []string, stdin io.Reader, stdout, stderr io.Writer) (newUser, error) {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return newUser{}, err
	}
	if *name == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -name <name> -email <email> [-password <password>]")
		fs.PrintDefaults()
		return newUser{}, fmt.Errorf("missing required flags: name, email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return newUser{}, fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	user := newUser{
		name:     strings.TrimSpace(*name),
		email:    strings.ToLower(strings.TrimSpace(*email)),
		password: password,
	}
	if err := validator.ValidateName(user.name); err != nil {
		return newUser{}, err
	}
	if err := validator.ValidateEmail(user.email); err != nil {
		return newUser{}, err
	}
	if err := validator.ValidatePassword(user.password); err != nil {
		return newUser{}, err
	}
	return user, nil
}

type userWriter interface {
	Create(ctx context.Context, tx store.Execer, id, name, email, passwordHash string) error
	ExistsByEmail(ctx context.Context, tx store.Getter, email string) (bool, error)
}

type auditWriter interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func create(ctx context.Context, txRunner db.TxRunner, users userWriter, audit auditWriter, user newUser) (string, error) {
	hash, err := auth.HashPassword(user.password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	id := uuid.NewString()
	err = txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := users.ExistsByEmail(ctx, tx, user.email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("user %s already exists", user.email)
		}
		if err := users.Create(ctx, tx, id, user.name, user.email, hash); err != nil {
			return err
		}
		return audit.Log(ctx, tx, id, "signup", "user", id, `{"source":"adduser"}`)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return "", fmt.Errorf("user %s already exists", user.email)
		}
		return "", err
	}
	return id, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
