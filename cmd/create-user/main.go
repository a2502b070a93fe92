// CLI tool to create a user profile with a bcrypt-hashed password and API token.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"lg/calorie-tracker/internal/app"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/models"
)

func main() {
	if errRun := run(context.Background(), os.Stdin, os.Stdout); errRun != nil {
		log.WithError(errRun).Error("create user failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.SetupLogging(cfg.LogLevel)

	u, password, err := readProfile(bufio.NewReader(in), out)
	if err != nil {
		return err
	}
	if password != "" {
		hash, errHash := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if errHash != nil {
			return fmt.Errorf("hash password: %w", errHash)
		}
		u.Password = string(hash)
	}

	st, conn, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	created, err := st.CreateUser(ctx, u)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nUser created successfully!\n")
	fmt.Fprintf(out, "  ID:           %d\n", created.ID)
	fmt.Fprintf(out, "  Username:     %s\n", created.Username)
	fmt.Fprintf(out, "  Calorie goal: %d kcal/day\n", created.DailyCalorieGoal)
	fmt.Fprintf(out, "  Auth Token:   %s\n", created.AuthToken)
	return nil
}

// readProfile prompts for each profile field. Empty answers take the default
// shown in brackets.
func readProfile(r *bufio.Reader, out io.Writer) (*models.User, string, error) {
	ask := func(label, def string) string {
		if def != "" {
			fmt.Fprintf(out, "%s [%s]: ", label, def)
		} else {
			fmt.Fprintf(out, "%s: ", label)
		}
		line, _ := r.ReadString('\n')
		if line = strings.TrimSpace(line); line == "" {
			return def
		}
		return line
	}
	askFloat := func(label, def string) (float64, error) {
		raw := ask(label, def)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", label, raw)
		}
		return v, nil
	}

	u := &models.User{
		Username:  ask("Username", ""),
		FirstName: ask("First name", ""),
		LastName:  ask("Last name", ""),
	}
	if email := ask("Email", ""); email != "" {
		u.Email = &email
	}

	birth, err := time.Parse(time.DateOnly, ask("Birth date (YYYY-MM-DD)", ""))
	if err != nil {
		return nil, "", fmt.Errorf("birth date: expected YYYY-MM-DD")
	}
	u.BirthDate = birth
	u.Gender = models.Gender(strings.ToLower(ask("Gender (male/female/other)", "other")))
	if u.HeightCM, err = askFloat("Height (cm)", ""); err != nil {
		return nil, "", err
	}
	if u.WeightKG, err = askFloat("Weight (kg)", ""); err != nil {
		return nil, "", err
	}
	u.ActivityLevel = models.ActivityLevel(strings.ToLower(ask("Activity level (sedentary/light/moderate/active/very_active)", "moderate")))
	u.WeightGoal = models.WeightGoal(strings.ToLower(ask("Weight goal (lose/maintain/gain)", "maintain")))

	if u.WeightGoal != models.WeightGoalMaintain {
		target, errTarget := askFloat("Target weight (kg)", "")
		if errTarget != nil {
			return nil, "", errTarget
		}
		u.TargetWeightKG = &target
		if u.TargetRateKgPerWeek, err = askFloat("Rate (kg/week)", "0.5"); err != nil {
			return nil, "", err
		}
	}

	password := ask("Password (empty disables API login)", "")
	return u, password, nil
}
