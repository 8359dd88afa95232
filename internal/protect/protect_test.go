package protect

import "testing"

func TestEvaluateToolAllowsReadOnly(t *testing.T) {
	if d := EvaluateTool("Read", ".claude/memory/foo.md"); d.Blocked {
		t.Fatalf("expected Read to be allowed, got blocked: %s", d.Reason)
	}
	if d := EvaluateTool("Glob", ".claude/memory/**"); d.Blocked {
		t.Fatal("expected Glob to be allowed")
	}
}

func TestEvaluateToolBlocksWriteUnderMemoryDir(t *testing.T) {
	d := EvaluateTool("Write", "/repo/.claude/memory/foo.md")
	if !d.Blocked {
		t.Fatal("expected Write under memory dir to be blocked")
	}
}

func TestEvaluateToolAllowsWriteElsewhere(t *testing.T) {
	d := EvaluateTool("Write", "/repo/src/main.go")
	if d.Blocked {
		t.Fatal("expected Write outside memory dir to be allowed")
	}
}

func TestEvaluateToolDoesNotFalsePositiveOnSimilarName(t *testing.T) {
	d := EvaluateTool("Write", "/repo/.claude/memory-notes/foo.md")
	if d.Blocked {
		t.Fatal("expected prefix+separator match, not substring, so memory-notes must be allowed")
	}
}

func TestEvaluateShellBlocksRedirectIntoMemoryDir(t *testing.T) {
	d := EvaluateShell(`printf "x" > .claude/memory/foo.md`)
	if !d.Blocked {
		t.Fatal("expected redirect into memory dir to be blocked")
	}
}

func TestEvaluateShellBlocksDestructiveVerb(t *testing.T) {
	d := EvaluateShell("rm -rf .claude/memory/foo.md")
	if !d.Blocked {
		t.Fatal("expected rm targeting memory dir to be blocked")
	}
}

func TestEvaluateShellAllowsGitRmCached(t *testing.T) {
	d := EvaluateShell("git rm --cached .claude/memory/foo.md")
	if d.Blocked {
		t.Fatal("expected git rm --cached to be whitelisted")
	}
}

func TestEvaluateShellAllowsReadOnlyVerbs(t *testing.T) {
	d := EvaluateShell("cat .claude/memory/foo.md")
	if d.Blocked {
		t.Fatal("expected cat to be allowed when not redirecting")
	}
}

func TestEvaluateShellAllowsMemoryCLI(t *testing.T) {
	d := EvaluateShell("memkeep write --type gotcha --title x < .claude/memory/foo.md")
	if d.Blocked {
		t.Fatal("expected the memory CLI itself to be whitelisted")
	}
}

func TestEvaluateShellAllowsUnrelatedCommands(t *testing.T) {
	d := EvaluateShell("rm -rf /tmp/scratch")
	if d.Blocked {
		t.Fatal("expected commands that never mention the memory dir to be allowed")
	}
}
