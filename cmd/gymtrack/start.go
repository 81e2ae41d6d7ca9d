package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/gymtrack/internal/session"
)

// runStart drives one workout session: it picks the division due today,
// then reads commands from stdin until the division is finished or the
// session is cancelled.
func runStart(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	workoutID := fs.Int("id", 0, "workout id (see 'gymtrack workouts')")
	division := fs.String("division", "", "override the division to train (default: next due)")
	fs.Parse(args) //nolint:errcheck

	if *workoutID == 0 {
		return fmt.Errorf("-id is required")
	}

	app, err := newApp(*configPath, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	workout, err := app.API.Workout(ctx, *workoutID)
	if err != nil {
		return err
	}

	divisions := workout.Divisions()
	if len(divisions) == 0 {
		fmt.Println("This workout has no exercises. Nothing to do.")
		return nil
	}

	div := *division
	if div == "" {
		if app.Engine.AllDivisionsCompletedToday(workout.ID, divisions) {
			fmt.Println("You already completed every division of this workout today. Come back tomorrow!")
			return nil
		}
		div = app.Engine.NextDivision(workout.ID, divisions)
	}

	sess := session.New(workout, div, app.Store, app.API, log)
	if _, ok := sess.ActiveExercise(); !ok {
		fmt.Printf("Division %s has no exercises. Nothing to do.\n", div)
		return nil
	}

	fmt.Printf("%s — division %s of %s\n", workout.Name, div, strings.Join(divisions, "/"))
	fmt.Println("Commands: done, weight <kg>, reps <n>, status, finish, cancel")
	printStatus(sess)

	scanner := bufio.NewScanner(os.Stdin)
	for !sess.Closed() {
		fmt.Printf("[%s] > ", formatElapsed(sess))
		if !scanner.Scan() {
			// stdin closed: treat as cancel, nothing is persisted.
			sess.Cancel()
			fmt.Println("\nSession cancelled.")
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "done", "d":
			if err := sess.CompleteCurrentSet(); err != nil {
				fmt.Println(err)
				continue
			}
			printStatus(sess)
		case "weight", "w":
			if len(fields) < 2 {
				fmt.Println("usage: weight <kg>")
				continue
			}
			if err := sess.EditCurrentSet(fields[1], ""); err != nil {
				fmt.Println(err)
			}
		case "reps", "r":
			if len(fields) < 2 {
				fmt.Println("usage: reps <n>")
				continue
			}
			if err := sess.EditCurrentSet("", fields[1]); err != nil {
				fmt.Println(err)
			}
		case "status", "s":
			printStatus(sess)
		case "finish", "f":
			if err := sess.Finish(ctx); err != nil {
				if errors.Is(err, session.ErrDivisionIncomplete) {
					fmt.Println("Not yet — complete every exercise of the division first.")
					continue
				}
				return err
			}
			fmt.Printf("Division %s complete! 🎉 Saved to your history.\n", div)
		case "cancel", "q":
			sess.Cancel()
			fmt.Println("Session cancelled. Nothing was saved.")
		default:
			fmt.Printf("unknown command %q (done, weight, reps, status, finish, cancel)\n", fields[0])
		}
	}
	return nil
}

func printStatus(sess *session.Session) {
	done, total := sess.Progress()
	fmt.Printf("\nProgress: %d of %d exercises (division %s)\n", done, total, sess.Division())

	for _, ex := range sess.Exercises() {
		switch ex.Status {
		case session.StatusCompleted:
			fmt.Printf("  ✓ %s\n", ex.Name)
		case session.StatusActive:
			fmt.Printf("  ▶ %s — target %s reps @ %skg\n", ex.Name, ex.Reps, ex.Load)
			for i, set := range ex.SetRecords {
				mark := " "
				if set.Done {
					mark = "x"
				} else if cur, ok := ex.CurrentSet(); ok && i == cur {
					mark = ">"
				}
				fmt.Printf("    [%s] set %d: %s reps @ %skg\n", mark, set.Number, set.Reps, set.Weight)
			}
		default:
			fmt.Printf("  · %s\n", ex.Name)
		}
	}

	if sess.DivisionComplete() {
		fmt.Println("\nAll exercises done — type 'finish' to record the session.")
	}
	fmt.Println()
}

func formatElapsed(sess *session.Session) string {
	elapsed := sess.Elapsed()
	h := int(elapsed.Hours())
	m := int(elapsed.Minutes()) % 60
	s := int(elapsed.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
