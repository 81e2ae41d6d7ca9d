package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/gymtrack/internal/appctx"
	"github.com/claude/gymtrack/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "version" {
		fmt.Println("gymtrack", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var err error
	switch cmd {
	case "login":
		err = runLogin(args, log)
	case "logout":
		err = runLogout(args, log)
	case "profile":
		err = runProfile(args, log)
	case "workouts":
		err = runWorkouts(args, log)
	case "home":
		err = runHome(args, log)
	case "start":
		err = runStart(args, log)
	case "progress":
		err = runProgress(args, log)
	case "reset-history":
		err = runResetHistory(args, log)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: gymtrack <command> [flags]

Commands:
  login          sign in to the gym backend
  logout         sign out and clear the stored token
  profile        show the signed-in member's profile
  workouts       list workout programs
  home           today's suggestion, streak and membership status
  start          run a workout session set by set
  progress       streak, training time and execution history
  reset-history  clear the local execution log
  version        print version and exit

Run 'gymtrack <command> -h' for command flags.
`)
}

// newApp loads configuration and opens the application context. A missing
// config file falls back to defaults (local devserver, ~/.gymtrack).
func newApp(configPath string, log *slog.Logger) (*appctx.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
	}
	return appctx.New(cfg, log)
}

func runLogin(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args) //nolint:errcheck

	if *email == "" || *password == "" {
		return fmt.Errorf("-email and -password are required")
	}

	app, err := newApp(*configPath, log)
	if err != nil {
		return err
	}
	defer app.Close()

	member, err := app.SignIn(context.Background(), *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", member.Name, member.Status)
	return nil
}

func runLogout(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args) //nolint:errcheck

	app, err := newApp(*configPath, log)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.SignOut(context.Background()); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func runProfile(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args) //nolint:errcheck

	app, err := newApp(*configPath, log)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Init(context.Background()); err != nil {
		return err
	}
	profile, ok := app.Profile()
	if !ok {
		return fmt.Errorf("not signed in — run 'gymtrack login' first")
	}

	fmt.Printf("Name:   %s\n", profile.User.Name)
	fmt.Printf("Email:  %s\n", profile.User.Email)
	if profile.User.Phone != "" {
		fmt.Printf("Phone:  %s\n", profile.User.Phone)
	}
	if profile.Member.Goal != "" {
		fmt.Printf("Goal:   %s\n", profile.Member.Goal)
	}
	fmt.Printf("Status: %s\n", profile.Member.Status)
	return nil
}

func runWorkouts(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("workouts", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args) //nolint:errcheck

	app, err := newApp(*configPath, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	workouts, err := app.API.Workouts(ctx)
	if err != nil {
		return err
	}
	if len(workouts) == 0 {
		fmt.Println("No workouts assigned.")
		return nil
	}

	for _, w := range workouts {
		marker := " "
		if app.Engine.CompletedToday(w.ID, "") {
			marker = "✓"
		}
		fmt.Printf("%s [%d] %s (%s)", marker, w.ID, w.Name, w.Type)
		if w.Weekday != "" {
			fmt.Printf(" — %s", w.Weekday)
		}
		if divisions := w.Divisions(); len(divisions) > 1 {
			fmt.Printf(" — next division: %s", app.Engine.NextDivision(w.ID, divisions))
		}
		fmt.Println()
	}
	return nil
}

func runHome(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("home", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args) //nolint:errcheck

	app, err := newApp(*configPath, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	workouts, err := app.API.Workouts(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Streak: %d day(s)   Training time: %d min\n",
		app.Engine.Streak(), app.Engine.TotalTrainingMinutes())

	if id, ok := app.Engine.NextAvailableWorkout(workouts); ok {
		for _, w := range workouts {
			if w.ID == id {
				fmt.Printf("Up next: [%d] %s", w.ID, w.Name)
				if divisions := w.Divisions(); len(divisions) > 0 {
					fmt.Printf(" — division %s", app.Engine.NextDivision(w.ID, divisions))
				}
				fmt.Println()
				break
			}
		}
	} else {
		fmt.Println("All workouts done for today. 🎉")
	}

	membership, err := app.API.NextMembership(ctx)
	if err != nil {
		log.Warn("membership fetch failed", "error", err)
	} else if membership == nil {
		fmt.Println("Membership: nothing due.")
	} else {
		fmt.Printf("Membership: %s R$%.2f due %s (%d day(s), %s)\n",
			membership.PlanName, membership.Amount, membership.DueDate,
			membership.DaysUntilDue, membership.Status)
	}
	return nil
}

func runProgress(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("progress", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	limit := fs.Int("limit", 20, "history entries to show")
	fs.Parse(args) //nolint:errcheck

	app, err := newApp(*configPath, log)
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Printf("Streak:        %d day(s)\n", app.Engine.Streak())
	fmt.Printf("Training time: %d min (estimated)\n", app.Engine.TotalTrainingMinutes())

	events := app.Store.ReadAll()
	if len(events) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Println("\nRecent sessions:")
	shown := 0
	for i := len(events) - 1; i >= 0 && shown < *limit; i-- {
		ev := events[i]
		fmt.Printf("  %s  workout %d, division %s\n",
			ev.CompletedAt.Format("2006-01-02 15:04"), ev.WorkoutID, ev.Division)
		shown++
	}
	return nil
}

func runResetHistory(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("reset-history", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	yes := fs.Bool("yes", false, "skip confirmation")
	fs.Parse(args) //nolint:errcheck

	if !*yes {
		return fmt.Errorf("this deletes the entire local execution log; re-run with -yes to confirm")
	}

	app, err := newApp(*configPath, log)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.Clear(); err != nil {
		return err
	}
	fmt.Println("Execution history cleared.")
	return nil
}
