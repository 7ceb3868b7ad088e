package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
	"golang.org/x/term"

	"recipe-service/accounts"
	"recipe-service/config"
	"recipe-service/database"
	"recipe-service/forms"
	"recipe-service/passwords"
	"recipe-service/server"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run modules")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", "./database/migrations", "Target directory for the new .sql file")
	usernameFlag := flag.String("username", "", "Username for create-user")
	emailFlag := flag.String("email", "", "Email address for create-user")
	firstNameFlag := flag.String("first-name", "", "First name for create-user")
	lastNameFlag := flag.String("last-name", "", "Last name for create-user")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		server.StartServer()
	case "create-migration":
		if err := database.CreateMigration(*nameFlag, *dirFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "create-user":
		form := forms.UserAdd{
			FirstName: *firstNameFlag,
			LastName:  *lastNameFlag,
			Email:     *emailFlag,
			Username:  *usernameFlag,
			IsActive:  true,
		}
		if err := createUser(form); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command %q\n", *commandFlag)
		os.Exit(1)
	}
}

func createUser(form forms.UserAdd) error {
	server.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dbConn := database.InitializeDatabase(cfg.DatabasePath)
	defer dbConn.Close()

	form.Password, err = prompt("Password: ")
	if err != nil {
		return err
	}
	form.PasswordConfirmation, err = prompt("Password (again): ")
	if err != nil {
		return err
	}

	svc := accounts.NewService(database.NewStore(dbConn), passwords.NewHasher(cfg.PasswordIterations))
	user, err := svc.Create(context.Background(), form)
	if err != nil {
		var fieldErrs forms.Errors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				fmt.Fprintf(os.Stderr, "%s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("user not created")
		}
		return err
	}

	logger.Info("User created", zap.Int("id", user.ID), zap.String("username", user.Username))
	return nil
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
