package command_test

import (
	"testing"

	"nostrcord/internal/command"
)

func TestInterpret(t *testing.T) {
	cases := []struct {
		in   string
		want command.Command
	}{
		{"!subscribe", command.Subscribe},
		{"!unsubscribe", command.Unsubscribe},
		{"!help", command.Help},
		{"  !subscribe\n", command.Subscribe},
		{"\t!help ", command.Help},
		{"!Subscribe", command.None},
		{"!subscribe now", command.None},
		{"subscribe", command.None},
		{"hello there", command.None},
		{"", command.None},
	}
	for _, c := range cases {
		if got := command.Interpret(c.in); got != c.want {
			t.Fatalf("Interpret(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCommand_String(t *testing.T) {
	if got := command.Subscribe.String(); got != "subscribe" {
		t.Fatalf("got %q", got)
	}
	if got := command.None.String(); got != "none" {
		t.Fatalf("got %q", got)
	}
}
