package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sceu/clinic/internal/auth"
	"github.com/sceu/clinic/internal/config"
	"github.com/sceu/clinic/internal/database"
	"github.com/sceu/clinic/internal/importer"
	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/services"
	"github.com/sceu/clinic/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "clinic",
	Short: "Clinic administration CLI",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

func init() {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.Migrate(cfg.Database); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Println("Migrations applied")
			return nil
		},
	}

	var (
		importDir      string
		importMapping  string
		importDelim    string
		importEncoding string
	)
	importCmd := &cobra.Command{
		Use:   "import-csv",
		Short: "Import traceability entries from a directory of CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importDir == "" {
				return fmt.Errorf("required flag: --dir")
			}
			delim := rune(';')
			if importDelim != "" {
				runes := []rune(importDelim)
				if len(runes) != 1 {
					return fmt.Errorf("delimiter must be a single character")
				}
				delim = runes[0]
			}

			mapping := importer.DefaultMapping
			if importMapping != "" {
				data, err := os.ReadFile(importMapping)
				if err != nil {
					return fmt.Errorf("read mapping file: %w", err)
				}
				mapping = importer.FieldMapping{}
				if err := json.Unmarshal(data, &mapping); err != nil {
					return fmt.Errorf("parse mapping file: %w", err)
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.NewDB(cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			records := services.NewRecordService(db.Pool)
			im := importer.New(services.NewTraceabilityService(db.Pool, records))
			summary, err := im.ImportDir(cmd.Context(), importDir, mapping, delim, importEncoding)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d files, inserted %d entries\n", summary.Files, summary.Inserted)
			for _, e := range summary.Errors {
				fmt.Fprintf(os.Stderr, "  warning: %s\n", e)
			}
			return nil
		},
	}
	importCmd.Flags().StringVar(&importDir, "dir", "", "Directory containing CSV files")
	importCmd.Flags().StringVar(&importMapping, "mapping", "", "JSON file mapping field names to column headers (defaults to the historical headers)")
	importCmd.Flags().StringVar(&importDelim, "delimiter", ";", "CSV field delimiter")
	importCmd.Flags().StringVar(&importEncoding, "encoding", "latin-1", "File encoding (utf-8, latin-1, windows-1252)")

	var (
		userEmail    string
		userName     string
		userRole     string
		userPassword string
	)
	userCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userEmail == "" || userName == "" {
				return fmt.Errorf("required flags: --email, --name")
			}
			if !models.ValidRole(userRole) {
				return fmt.Errorf("invalid role %q", userRole)
			}

			password := userPassword
			if password == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Println()
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(raw)
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.NewDB(cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			user, err := auth.NewAuth(db.Pool).RegisterUser(context.Background(), userEmail, password, userName, userRole)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Printf("Created user %s (%s) with role %s\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userRole, "role", models.RoleStaff, "Role (admin or staff)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (prompted if omitted)")

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	userCmd.AddCommand(userCreateCmd)

	rootCmd.AddCommand(migrateCmd, importCmd, userCmd)
}
