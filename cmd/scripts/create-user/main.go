package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/database"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	var opts struct {
		Role     string `short:"r" long:"role" default:"member" choice:"admin" choice:"librarian" choice:"member" description:"The role to give the user"`
		Email    string `short:"e" long:"email" description:"The user's email address"`
		Password string `short:"p" long:"password" required:"true" description:"The user's password"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/create-user -p <password> [-r librarian] <username>")
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	userService := users.NewService(db)

	role, err := userService.RetrieveRoleByName(ctx, opts.Role)
	if err != nil {
		log.Err(err).Fatal("role lookup error")
	}

	var email *string
	if opts.Email != "" {
		email = &opts.Email
	}

	user, err := userService.Create(ctx, users.CreateUserOptions{
		Username: args[0],
		Email:    email,
		Password: opts.Password,
		RoleID:   role.ID,
	})
	if err != nil {
		log.Err(err).Fatal("create user error")
	}

	log.Info("created user", logger.Data{"user_id": user.ID, "username": user.Username, "role": role.Name})
}
