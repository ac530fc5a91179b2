package main

import "testing"

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	expected := []string{"ingest", "chat", "config", "version"}
	for _, name := range expected {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Subcommand %q not registered", name)
		}
	}
}

func TestIngestRequiresArgs(t *testing.T) {
	root := newRootCmd()

	for _, cmd := range root.Commands() {
		if cmd.Name() != "ingest" {
			continue
		}
		if err := cmd.Args(cmd, nil); err == nil {
			t.Error("ingest must require at least one path argument")
		}
		if err := cmd.Args(cmd, []string{"doc.txt"}); err != nil {
			t.Errorf("ingest rejected a valid argument: %v", err)
		}
		return
	}
	t.Fatal("ingest command not found")
}

func TestVersionSet(t *testing.T) {
	if version == "" {
		t.Error("version must not be empty")
	}
}
