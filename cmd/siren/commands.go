package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dangerclosesec/siren/internal/auth"
	"github.com/dangerclosesec/siren/internal/config"
	"github.com/dangerclosesec/siren/internal/repository"
	"github.com/dangerclosesec/siren/program/migration"
	"github.com/dangerclosesec/siren/program/parser"
	"github.com/dangerclosesec/siren/sdk/client"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// errRejected marks a program that failed checking
var errRejected = errors.New("program rejected")

var (
	dbConnString string
	verbose      bool
	historyLimit int
	tokenClient  string
	serverURL    string
	apiToken     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbConnString, "db", "d", "", "Database connection string (defaults to the configured database)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable grammar trace and report output")

	checkCmd.Flags().StringVarP(&serverURL, "server", "s", "", "Check through a Siren API server instead of locally")
	checkCmd.Flags().StringVar(&apiToken, "token", os.Getenv("SIREN_TOKEN"), "Bearer token for --server")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	tokenCmd.Flags().StringVarP(&tokenClient, "client", "c", "cli", "Client name carried in the token")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tokenCmd)
}

var rootCmd = &cobra.Command{
	Use:           "siren",
	Short:         "Siren checks programs written in the Siren language",
	Long:          `Siren tokenizes and grammar-checks Siren programs, and manages the check history database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check one or more .siren files",
	Long:  `Check each file in order. Stops at the first rejected file and prints its diagnostic.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if serverURL != "" {
			return checkRemote(cmd, args)
		}

		out := cmd.OutOrStdout()
		log := newLogger(cmd)

		for _, filePath := range args {
			report, err := parser.ParseFile(filePath, parser.WithLogger(log))
			if err != nil {
				var checkErr *parser.Error
				if !errors.As(err, &checkErr) {
					return err
				}
				fmt.Fprintf(out, "%s: %v\n", filePath, checkErr)
				return errRejected
			}

			fmt.Fprintln(out, "Parsing completed.")

			if verbose {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}
			}
		}

		return nil
	},
}

func checkRemote(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	api := client.NewClient(&client.Config{
		BaseURL: strings.TrimRight(serverURL, "/"),
		Token:   apiToken,
		Timeout: 30 * time.Second,
	})

	for _, filePath := range args {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filePath, err)
		}

		result, err := api.Check(cmd.Context(), &client.CheckRequest{
			Name:   filepath.Base(filePath),
			Source: string(content),
		})
		if err != nil {
			return err
		}
		if !result.Ok {
			fmt.Fprintf(out, "%s: %s\n", filePath, result.Error)
			return errRejected
		}

		fmt.Fprintln(out, "Parsing completed.")

		if verbose {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result.Report); err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
		}
	}

	return nil
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token stream of a .siren file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		tokens, err := parser.Tokenize(string(content))
		for _, tok := range tokens {
			fmt.Fprintf(w, "%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Kind, tok.Text)
		}
		w.Flush()

		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", args[0], err)
			return errRejected
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the check history schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := connString()
		if err != nil {
			return err
		}

		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		migrator := migration.NewMigrator(db)
		if err := migrator.InitializeSchema(); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}

		version, err := migrator.GetCurrentVersion()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Schema initialized successfully (version %d)\n", version)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent check runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := connString()
		if err != nil {
			return err
		}

		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		runs, total, err := repository.NewCheckRunRepository(db).Query(ctx, repository.QueryParams{Limit: historyLimit})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tACCEPTED\tDIAGNOSTIC")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
				run.ID, run.CreatedAt.Format(time.RFC3339), run.SourceName, run.Accepted, run.Diagnostic)
		}
		w.Flush()

		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d runs\n", len(runs), total)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token from the configured JWT secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cfg.AuthEnabled() {
			return errors.New("JWT_SECRET is not set")
		}

		token, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod.Duration).Generate(tokenClient)
		if err != nil {
			return fmt.Errorf("generating token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func connString() (string, error) {
	if dbConnString != "" {
		return dbConnString, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DSN(), nil
}
