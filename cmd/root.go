package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pbun206/repeater/check"
	"github.com/pbun206/repeater/config"
	"github.com/pbun206/repeater/create"
	"github.com/pbun206/repeater/db"
	"github.com/pbun206/repeater/drill"
	"github.com/pbun206/repeater/fsrs"
	"github.com/pbun206/repeater/stats"
)

type App struct {
	cfg config.Config
}

func newCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <card-path>",
		Short: "Create or append to a card file via the capture editor",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleCreate,
	}
	return cmd
}

func newCheckCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]...",
		Short: "Register all cards under the given files/directories and print collection stats. Defaults to the current directory",
		Run:   app.handleCheck,
	}
	return cmd
}

func newDrillCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill [path]...",
		Short: "Review the cards due today. Defaults to the current directory",
		Run:   app.handleDrill,
	}
	cmd.Flags().Int("card-limit", 0, "Maximum number of cards to drill in a session (0 = all due cards)")
	cmd.Flags().Int("new-card-limit", 0, "Maximum number of new cards to drill in a session (0 = unlimited)")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [path]...",
		Short: "Print detailed collection statistics. Defaults to the current directory",
		Run:   app.handleStats,
	}
	return cmd
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repeater",
		Short: "CLI for drilling markdown flashcards with spaced repetition",
	}
	cmd.AddCommand(
		newCreateCmd(app),
		newCheckCmd(app),
		newDrillCmd(app),
		newStatsCmd(app),
	)
	return cmd
}

func (a *App) openDB() (*sql.DB, error) {
	path := a.cfg.DatabasePath
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.InitDB(path)
}

func (a *App) params() fsrs.Params {
	params := fsrs.DefaultParams()
	params.DesiredRetention = a.cfg.DesiredRetention
	params.MaximumIntervalDays = a.cfg.MaximumIntervalDays
	return params
}

func collectionPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func (a *App) handleCreate(cmd *cobra.Command, args []string) {
	if err := create.Run(args[0], os.Stdin, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *App) handleCheck(cmd *cobra.Command, args []string) {
	dbConn, err := a.openDB()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if _, err := check.Run(dbConn, collectionPaths(args), os.Stdout); err != nil {
		fmt.Printf("Error during check operation: %v\n", err)
		os.Exit(1)
	}
}

func (a *App) handleDrill(cmd *cobra.Command, args []string) {
	cardLimit, err := cmd.Flags().GetInt("card-limit")
	if err == nil && cardLimit == 0 {
		cardLimit = a.cfg.CardLimit
	}
	newCardLimit, err := cmd.Flags().GetInt("new-card-limit")
	if err == nil && newCardLimit == 0 {
		newCardLimit = a.cfg.NewCardLimit
	}

	dbConn, err := a.openDB()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := drill.Run(dbConn, collectionPaths(args), a.params(), cardLimit, newCardLimit); err != nil {
		fmt.Printf("Error during drill operation: %v\n", err)
		os.Exit(1)
	}
}

func (a *App) handleStats(cmd *cobra.Command, args []string) {
	dbConn, err := a.openDB()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	collection, err := drill.RegisterAllCards(dbConn, collectionPaths(args))
	if err != nil {
		fmt.Printf("Error during stats operation: %v\n", err)
		os.Exit(1)
	}

	rows, err := db.CardStatsRows(dbConn)
	if err != nil {
		fmt.Printf("Error during stats operation: %v\n", err)
		os.Exit(1)
	}

	report := stats.Build(collection, rows, time.Now().UTC())
	report.Render(os.Stdout)
}

// Execute initializes and runs the root command. It is the single entry point
// for the command-line interface.
func Execute() {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	app := &App{cfg: cfg}
	rootCmd := newRootCmd(app)
	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, so we just need to exit.
		os.Exit(1)
	}
}
