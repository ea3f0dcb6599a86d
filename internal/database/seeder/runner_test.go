package seeder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carenet/internal/database"
)

type columnRows struct {
	cols [][2]string
	i    int
}

func (r *columnRows) Close()     {}
func (r *columnRows) Err() error { return nil }
func (r *columnRows) Next() bool { r.i++; return r.i <= len(r.cols) }
func (r *columnRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.cols[r.i-1][0]
	*dest[1].(*string) = r.cols[r.i-1][1]
	return nil
}

// schemaDB answers the information_schema query and nothing else.
type schemaDB struct {
	database.DB
	cols    [][2]string
	queries int
}

func (d *schemaDB) Query(context.Context, string, ...any) (database.Rows, error) {
	d.queries++
	return &columnRows{cols: d.cols}, nil
}

type recordingSeeder struct {
	name  string
	err   error
	needs Columns
	calls *[]string
}

func (s recordingSeeder) Name() string      { return s.name }
func (s recordingSeeder) Requires() Columns { return s.needs }

func (s recordingSeeder) Run(context.Context, database.DB) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

func TestRunner_RunsInOrderAndStopsOnError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	r := Runner{Seeders: []Seeder{
		recordingSeeder{name: "accounts", calls: &calls},
		nil,
		recordingSeeder{name: "jobs", err: boom, calls: &calls},
		recordingSeeder{name: "never", calls: &calls},
	}}

	err := r.Run(context.Background(), &schemaDB{})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "seed jobs") {
		t.Fatalf("expected wrapped jobs error, got %v", err)
	}
	if strings.Join(calls, ",") != "accounts,jobs" {
		t.Fatalf("unexpected call order %v", calls)
	}
}

func TestRunner_SchemaCheckedBeforeAnyWrite(t *testing.T) {
	var calls []string
	db := &schemaDB{cols: [][2]string{{"users", "id"}, {"users", "email"}}}
	r := Runner{Seeders: []Seeder{
		recordingSeeder{name: "accounts", needs: Columns{"users": {"id", "email"}}, calls: &calls},
		recordingSeeder{name: "jobs", needs: Columns{"jobs": {"title"}, "users": {"password_hash"}}, calls: &calls},
	}}

	err := r.Run(context.Background(), db)
	if err == nil {
		t.Fatalf("expected schema mismatch")
	}
	if !strings.Contains(err.Error(), "jobs.title") || !strings.Contains(err.Error(), "users.password_hash") {
		t.Fatalf("expected every missing column reported, got %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected no seeder to run, got %v", calls)
	}
	if db.queries != 1 {
		t.Fatalf("expected a single schema query, got %d", db.queries)
	}
}

func TestRunner_NilDB(t *testing.T) {
	if err := (Runner{}).Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}

func TestAccountsSeeder_RequiresPassword(t *testing.T) {
	if err := (AccountsSeeder{}).Run(context.Background(), &schemaDB{}); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestDefaults_Order(t *testing.T) {
	got := Defaults("pw")
	if len(got) != 2 || got[0].Name() != "accounts" || got[1].Name() != "jobs" {
		t.Fatalf("unexpected defaults %v", got)
	}
	if _, ok := got[0].Requires()["profiles"]; !ok {
		t.Fatalf("accounts seeder must declare profiles columns")
	}
}
