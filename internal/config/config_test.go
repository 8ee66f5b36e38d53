package config

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"Empty", "", nil},
		{"Single", "admin-a", []string{"admin-a"}},
		{"Multiple", "admin-a,admin-b", []string{"admin-a", "admin-b"}},
		{"TrimsSpaces", " admin-a , admin-b ", []string{"admin-a", "admin-b"}},
		{"DropsEmptyEntries", "admin-a,,admin-b,", []string{"admin-a", "admin-b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.value)
			if len(got) != len(tt.want) {
				t.Fatalf("splitList(%q) = %v, want %v", tt.value, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitList(%q)[%d] = %q, want %q", tt.value, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGodotenvQuoting(t *testing.T) {
	content := `ADMIN_LOGINS='bot "release" account,admin-a'`
	tmpfile, err := os.CreateTemp("", ".env.test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(tmpfile.Name())
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `bot "release" account,admin-a`
	if env["ADMIN_LOGINS"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["ADMIN_LOGINS"])
	}
}
