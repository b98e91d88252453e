package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/nestboxd/internal/domain"
	"github.com/yourorg/nestboxd/internal/infrastructure/logger"
	"github.com/yourorg/nestboxd/internal/repository"
	"github.com/yourorg/nestboxd/internal/service"
	"github.com/yourorg/nestboxd/pkg/config"
	"github.com/yourorg/nestboxd/pkg/database"
)

// nestboxctl provisions mandants, users, nestboxes and birds directly in
// the database. These records have no public write endpoints; operators
// create them out of band with this tool.
func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "mandant":
		run(func(ctx context.Context, env *env) error { return createMandant(ctx, env, args) })
	case "user":
		run(func(ctx context.Context, env *env) error { return createUser(ctx, env, args) })
	case "nestbox":
		run(func(ctx context.Context, env *env) error { return createNestbox(ctx, env, args) })
	case "bird":
		run(func(ctx context.Context, env *env) error { return createBird(ctx, env, args) })
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

type env struct {
	mandants  domain.MandantRepository
	users     domain.UserRepository
	nestboxes domain.NestboxRepository
	birds     domain.BirdRepository
}

func run(fn func(ctx context.Context, env *env) error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger("error")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewConnectionPool(ctx, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to Postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.DB()

	if err := database.EnsureSchema(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "failed to ensure database schema: %v\n", err)
		os.Exit(1)
	}

	e := &env{
		mandants:  repository.NewPostgresMandantRepository(db, log),
		users:     repository.NewPostgresUserRepository(db, log),
		nestboxes: repository.NewPostgresNestboxRepository(db, log),
		birds:     repository.NewPostgresBirdRepository(db, log),
	}
	if err := fn(ctx, e); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func createMandant(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("mandant", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	website := fs.String("website", "", "public website URL")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("name is required")
	}

	mandant := &domain.Mandant{
		UUID:    uuid.NewString(),
		Name:    *name,
		Website: *website,
	}
	if err := e.mandants.Create(ctx, mandant); err != nil {
		return err
	}
	fmt.Println(mandant.UUID)
	return nil
}

func createUser(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("user", flag.ExitOnError)
	mandantUUID := fs.String("mandant", "", "owning mandant uuid")
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "initial password")
	email := fs.String("email", "", "contact email")
	firstname := fs.String("firstname", "", "first name")
	lastname := fs.String("lastname", "", "last name")
	fs.Parse(args)

	if *mandantUUID == "" || *username == "" || *password == "" {
		return fmt.Errorf("mandant, username and password are required")
	}
	if _, err := e.mandants.GetByUUID(ctx, *mandantUUID); err != nil {
		return fmt.Errorf("mandant %s: %w", *mandantUUID, err)
	}

	salt, err := newSalt()
	if err != nil {
		return err
	}
	user := &domain.User{
		UUID:         uuid.NewString(),
		MandantUUID:  *mandantUUID,
		Username:     *username,
		PasswordHash: service.HashPassword(*password, salt),
		Salt:         salt,
		Email:        *email,
		Firstname:    *firstname,
		Lastname:     *lastname,
	}
	if err := e.users.Create(ctx, user); err != nil {
		return err
	}
	fmt.Println(user.UUID)
	return nil
}

func createNestbox(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("nestbox", flag.ExitOnError)
	mandantUUID := fs.String("mandant", "", "owning mandant uuid")
	public := fs.Bool("public", true, "visible on the public endpoints")
	fs.Parse(args)

	if *mandantUUID == "" {
		return fmt.Errorf("mandant is required")
	}
	if _, err := e.mandants.GetByUUID(ctx, *mandantUUID); err != nil {
		return fmt.Errorf("mandant %s: %w", *mandantUUID, err)
	}

	nestbox := &domain.Nestbox{
		UUID:        uuid.NewString(),
		MandantUUID: *mandantUUID,
		Public:      *public,
		Images:      []string{},
	}
	if err := e.nestboxes.Create(ctx, nestbox); err != nil {
		return err
	}
	fmt.Println(nestbox.UUID)
	return nil
}

func createBird(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("bird", flag.ExitOnError)
	mandantUUID := fs.String("mandant", "", "owning mandant uuid")
	name := fs.String("name", "", "bird display name")
	fs.Parse(args)

	if *mandantUUID == "" || *name == "" {
		return fmt.Errorf("mandant and name are required")
	}
	if _, err := e.mandants.GetByUUID(ctx, *mandantUUID); err != nil {
		return fmt.Errorf("mandant %s: %w", *mandantUUID, err)
	}

	bird := &domain.Bird{
		UUID:        uuid.NewString(),
		MandantUUID: *mandantUUID,
		Bird:        *name,
	}
	if err := e.birds.Create(ctx, bird); err != nil {
		return err
	}
	fmt.Println(bird.UUID)
	return nil
}

func newSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func printUsage() {
	fmt.Println(`Usage: nestboxctl <command> [flags]

Commands:
  mandant  -name <name> [-website <url>]
  user     -mandant <uuid> -username <name> -password <pw> [-email -firstname -lastname]
  nestbox  -mandant <uuid> [-public=<bool>]
  bird     -mandant <uuid> -name <name>

Database connection settings come from the environment (DB_HOST, DB_USER,
DB_PASSWORD, DB_NAME, DB_SSLMODE) or CONFIG_FILE.`)
}
