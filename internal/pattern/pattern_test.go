package pattern

import "testing"

func TestExtractFilePatterns(t *testing.T) {
	tags := []string{"auth", "file:src/auth/login.ts", "pattern:src/auth/**", "dir:src/auth", "other"}
	got := ExtractFilePatterns(tags)
	want := []string{"src/auth/login.ts", "src/auth/**", "src/auth"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestMatchExact(t *testing.T) {
	if Match("./src/a.go", []string{"src/a.go"}) != Exact {
		t.Fatal("expected exact match ignoring leading ./")
	}
}

func TestMatchDirectory(t *testing.T) {
	if Match("src/auth/login.ts", []string{"src/auth"}) != Directory {
		t.Fatal("expected directory match for bare dir pattern")
	}
	if Match("src/auth/login.ts", []string{"src/auth/"}) != Directory {
		t.Fatal("expected directory match for trailing-slash pattern")
	}
}

func TestMatchGlobDoubleStar(t *testing.T) {
	if Match("src/auth/deep/login.ts", []string{"src/auth/**"}) != Glob {
		t.Fatal("expected ** to span directories")
	}
}

func TestMatchGlobBasenameOnly(t *testing.T) {
	if Match("src/auth/login.TS", []string{"*.ts"}) != Glob {
		t.Fatal("expected bare glob to match on basename, case-insensitively")
	}
}

func TestMatchNone(t *testing.T) {
	if Match("src/other/x.go", []string{"src/auth/**", "*.ts"}) != None {
		t.Fatal("expected no match")
	}
}

func TestMatchStrongestWins(t *testing.T) {
	got := Match("src/auth/login.ts", []string{"*.ts", "src/auth/login.ts"})
	if got != Exact {
		t.Fatalf("expected strongest match type (exact), got %s", got)
	}
}
