package main

import "testing"

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{name: "file", args: []string{"notes.md"}, want: options{path: "notes.md"}},
		{name: "config flag", args: []string{"-c", "my.toml", "a.md"}, want: options{path: "a.md", configPath: "my.toml"}},
		{name: "config equals", args: []string{"--config=my.toml", "a.md"}, want: options{path: "a.md", configPath: "my.toml"}},
		{name: "help without file", args: []string{"--help"}, want: options{help: true}},
		{name: "missing file", args: nil, wantErr: true},
		{name: "missing config path", args: []string{"a.md", "-c"}, wantErr: true},
		{name: "two files", args: []string{"a.md", "b.md"}, wantErr: true},
		{name: "unknown flag", args: []string{"-x", "a.md"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
