package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func complete(t *testing.T, args ...string) string {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestCompletionScripts(t *testing.T) {
	for shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			if out := complete(t, "completion", shell); !strings.Contains(out, appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"completion", "tcsh"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestCompletionFlagValues(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"__complete", "render", "--effect", ""}, []string{"glass", "gradient", "shadow"}},
		{[]string{"__complete", "export", "--format", ""}, []string{"svg", "json", "png", "pdf"}},
		{[]string{"__complete", "layout", "--target", ""}, []string{"screen", "print"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:3], " "), func(t *testing.T) {
			out := complete(t, tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("completions %q missing %q", out, w)
				}
			}
		})
	}
}

func TestCompletionSpecFiles(t *testing.T) {
	out := complete(t, "__complete", "render", "")
	for _, ext := range []string{"json", "toml"} {
		if !strings.Contains(out, ext) {
			t.Errorf("spec completion %q missing extension %q", out, ext)
		}
	}
}
