package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/gymtrack/internal/devserver"
)

type memTokens struct {
	token string
}

func (m *memTokens) Token() (string, bool)   { return m.token, m.token != "" }
func (m *memTokens) SetToken(t string) error { m.token = t; return nil }
func (m *memTokens) ClearToken() error       { m.token = ""; return nil }

func testClient(t *testing.T) (*Client, *memTokens, *devserver.Server) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := devserver.New(log)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	tokens := &memTokens{}
	return NewClient(ts.URL, 5*time.Second, tokens, log), tokens, srv
}

// TestLoginPersistsToken verifies a successful login stores the bearer token
// and returns the member.
func TestLoginPersistsToken(t *testing.T) {
	client, tokens, _ := testClient(t)

	member, err := client.Login(context.Background(), devserver.SeedEmail, devserver.SeedPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if member.Name == "" {
		t.Error("member name is empty")
	}
	if _, ok := tokens.Token(); !ok {
		t.Error("no token persisted after login")
	}
}

// TestLoginRejected verifies bad credentials surface as ErrUnauthorized and
// leave no token behind.
func TestLoginRejected(t *testing.T) {
	client, tokens, _ := testClient(t)

	_, err := client.Login(context.Background(), devserver.SeedEmail, "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Login with bad password = %v, want ErrUnauthorized", err)
	}
	if _, ok := tokens.Token(); ok {
		t.Error("token persisted after rejected login")
	}
}

// TestWorkoutsNormalized verifies the workout list comes back in canonical
// form: pivot fallbacks resolved, divisions defaulted and ordered.
func TestWorkoutsNormalized(t *testing.T) {
	client, _, _ := testClient(t)
	ctx := context.Background()
	if _, err := client.Login(ctx, devserver.SeedEmail, devserver.SeedPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	workouts, err := client.Workouts(ctx)
	if err != nil {
		t.Fatalf("Workouts: %v", err)
	}
	if len(workouts) != 3 {
		t.Fatalf("got %d workouts, want 3", len(workouts))
	}

	abc := workouts[0]
	if abc.Name != "Hipertrofia ABC" || abc.Weekday != "Segunda" {
		t.Errorf("workout = %q/%q, want Hipertrofia ABC on Segunda", abc.Name, abc.Weekday)
	}
	divisions := abc.Divisions()
	if len(divisions) != 3 || divisions[0] != "A" || divisions[2] != "C" {
		t.Errorf("divisions = %v, want [A B C]", divisions)
	}

	// Leg Press only carries targets under pivot.
	var found bool
	for _, ex := range abc.Exercises {
		if ex.Name == "Leg Press" {
			found = true
			if ex.Sets != 3 || ex.Reps != "12" || ex.Load != "120" {
				t.Errorf("Leg Press = %d sets, %s reps, %s load; want 3/12/120 from pivot", ex.Sets, ex.Reps, ex.Load)
			}
		}
	}
	if !found {
		t.Error("Leg Press missing from normalized workout")
	}

	// The cardio workout has no division labels: everything defaults to A.
	for _, ex := range workouts[1].Exercises {
		if ex.Division != "A" {
			t.Errorf("exercise %s division = %q, want default A", ex.Name, ex.Division)
		}
	}
}

// TestWorkoutByID verifies the single-workout fetch.
func TestWorkoutByID(t *testing.T) {
	client, _, _ := testClient(t)
	ctx := context.Background()
	if _, err := client.Login(ctx, devserver.SeedEmail, devserver.SeedPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	workout, err := client.Workout(ctx, 2)
	if err != nil {
		t.Fatalf("Workout: %v", err)
	}
	if workout.ID != 2 || workout.Name != "Cardio Funcional" {
		t.Errorf("workout = %d/%q, want 2/Cardio Funcional", workout.ID, workout.Name)
	}

	if _, err := client.Workout(ctx, 99); err == nil {
		t.Error("Workout(99) succeeded, want error")
	}
}

// TestFinalizeWorkout verifies the advisory completion notice reaches the
// backend.
func TestFinalizeWorkout(t *testing.T) {
	client, _, srv := testClient(t)
	ctx := context.Background()
	if _, err := client.Login(ctx, devserver.SeedEmail, devserver.SeedPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := client.FinalizeWorkout(ctx, 1); err != nil {
		t.Fatalf("FinalizeWorkout: %v", err)
	}
	if got := srv.Finalized(); len(got) != 1 || got[0] != 1 {
		t.Errorf("finalized = %v, want [1]", got)
	}
}

// TestProfile verifies the profile fetch and normalization.
func TestProfile(t *testing.T) {
	client, _, _ := testClient(t)
	ctx := context.Background()
	if _, err := client.Login(ctx, devserver.SeedEmail, devserver.SeedPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	profile, err := client.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.User.Email != devserver.SeedEmail {
		t.Errorf("profile email = %q, want %q", profile.User.Email, devserver.SeedEmail)
	}
	if profile.Member.Status != "ativo" {
		t.Errorf("member status = %q, want ativo", profile.Member.Status)
	}
}

// TestNextMembership verifies both the due and none-due (404) paths.
func TestNextMembership(t *testing.T) {
	client, _, srv := testClient(t)
	ctx := context.Background()
	if _, err := client.Login(ctx, devserver.SeedEmail, devserver.SeedPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	m, err := client.NextMembership(ctx)
	if err != nil {
		t.Fatalf("NextMembership: %v", err)
	}
	if m == nil {
		t.Fatal("NextMembership = nil, want seeded record")
	}
	if m.PlanName != "Plano Mensal" || m.Status != "pendente" {
		t.Errorf("membership = %q/%q, want Plano Mensal/pendente", m.PlanName, m.Status)
	}

	srv.SetMembership(nil)
	m, err = client.NextMembership(ctx)
	if err != nil {
		t.Fatalf("NextMembership with none due: %v", err)
	}
	if m != nil {
		t.Errorf("NextMembership = %+v, want nil for 404", m)
	}
}

// TestUnauthorizedClearsToken verifies a 401 maps to ErrUnauthorized and
// drops the stored token so the caller re-routes to login.
func TestUnauthorizedClearsToken(t *testing.T) {
	client, tokens, _ := testClient(t)
	tokens.token = "stale-token"

	_, err := client.Workouts(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Workouts with stale token = %v, want ErrUnauthorized", err)
	}
	if _, ok := tokens.Token(); ok {
		t.Error("stale token still present after 401")
	}
}

// TestLogoutClearsToken verifies logout always clears the local token, even
// when the remote call cannot succeed.
func TestLogoutClearsToken(t *testing.T) {
	client, tokens, _ := testClient(t)
	ctx := context.Background()
	if _, err := client.Login(ctx, devserver.SeedEmail, devserver.SeedPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := tokens.Token(); ok {
		t.Error("token present after logout")
	}

	// Logging out while already signed out is fine.
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}
