package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/genre-sales-api/internal/config"
	"github.com/spec-kit/genre-sales-api/internal/observability"
	"github.com/spec-kit/genre-sales-api/internal/persistence"
	"github.com/spec-kit/genre-sales-api/internal/repository"
	"github.com/spec-kit/genre-sales-api/internal/service"
)

// setpassword stores a bcrypt hash for an employee. The password is read from stdin.
//
//	echo -n 's3cret' | setpassword -email andrew@chinookcorp.com
func main() {
	email := flag.String("email", "", "employee email")
	flag.Parse()
	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: setpassword -email <address> < password")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		logger.Fatal("failed to read password from stdin", zap.Error(err))
	}
	password = strings.TrimRight(password, "\r\n")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		EmployeeRepo: repository.NewEmployeeRepository(pg.PoolHandle()),
		Logger:       logger,
	})

	if err := authService.SetPassword(ctx, *email, password); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Fatal("no employee with that email", zap.String("email", *email))
		}
		logger.Fatal("failed to set password", zap.Error(err))
	}
	logger.Info("password updated", zap.String("email", *email))
}
