package process

import "testing"

func TestCheckArg(t *testing.T) {
	cases := []struct {
		name  string
		value string
		ok    bool
	}{
		{"plain", "main.dart", true},
		{"spaces are fine", "fix: handle empty list", true},
		{"quotes are fine", `say "hello"`, true},
		{"glob is fine", "*.go", true},
		{"semicolon", "a;rm -rf /", false},
		{"pipe", "a|b", false},
		{"ampersand", "a&&b", false},
		{"backtick", "`id`", false},
		{"dollar", "$HOME", false},
		{"redirect in", "a<b", false},
		{"redirect out", "a>b", false},
		{"subshell", "(a)", false},
		{"braces", "{a}", false},
		{"newline", "a\nb", false},
		{"carriage return", "a\rb", false},
		{"nul", "a\x00b", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkArg("value", tc.value)
			if tc.ok && err != nil {
				t.Errorf("checkArg(%q) = %v, want nil", tc.value, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("checkArg(%q) = nil, want error", tc.value)
			}
		})
	}
}

func TestCheckArgs_FirstOffenderWins(t *testing.T) {
	err := checkArgs("paths", []string{"ok", "also ok", "bad;"})
	if err == nil {
		t.Fatal("expected error for offending element")
	}
}
