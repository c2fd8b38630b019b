package command

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		input     string
		ok        bool
		name      string
		args      []string
		remainder string
	}{
		{input: "example.org", ok: false},
		{input: "/", ok: true, name: ""},
		{input: "  /Open https://a.example", ok: true, name: "open", args: []string{"https://a.example"}, remainder: "https://a.example"},
		{input: "/group new  Side Projects", ok: true, name: "group", args: []string{"new", "Side", "Projects"}, remainder: "new  Side Projects"},
		{input: `/group new "Side Projects" teal`, ok: true, name: "group", args: []string{"new", "Side Projects", "teal"}, remainder: `new "Side Projects" teal`},
		{input: `/group new "unterminated`, ok: true, name: "group", args: []string{"new", "unterminated"}, remainder: `new "unterminated`},
		{input: "/tabs", ok: true, name: "tabs"},
	}
	for _, tc := range cases {
		cmd, ok := Parse(tc.input)
		if ok != tc.ok {
			t.Fatalf("Parse(%q) ok=%v, want %v", tc.input, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if cmd.Name != tc.name || cmd.Remainder != tc.remainder || len(cmd.Args) != len(tc.args) {
			t.Fatalf("Parse(%q) = %+v", tc.input, cmd)
		}
		for i := range tc.args {
			if cmd.Args[i] != tc.args[i] {
				t.Fatalf("Parse(%q) arg %d = %q, want %q", tc.input, i, cmd.Args[i], tc.args[i])
			}
		}
	}
}

func TestCommandRest(t *testing.T) {
	cmd, _ := Parse(`/group add "Side Projects" Release  notes`)
	if got := cmd.Rest(2); got != "Release  notes" {
		t.Fatalf("Rest(2) = %q", got)
	}
	if got := cmd.Rest(0); got != cmd.Remainder {
		t.Fatalf("Rest(0) = %q, want remainder", got)
	}
	if got := cmd.Rest(5); got != "" {
		t.Fatalf("Rest(5) = %q, want empty", got)
	}
}
