package util

import "testing"

func TestGetFilename(t *testing.T) {
	tests := []struct {
		requested string
		fallback  string
		format    string
		want      string
	}{
		{"notes.html", "session-abc", "html", "notes.html"},
		{"notes", "session-abc", "html", "notes.html"},
		{"NOTES.HTML", "x", "html", "NOTES.HTML"},
		{"my notes", "x", "html", "my-notes.html"},
		{`"quoted.html"`, "x", "html", "quoted.html"},
		{"out/today", "x", "html", "out/today.html"},
		{"", "session-abc123def", "html", "session-abc123def.html"},
		{"  ", "", "html", "transcript.html"},
		{"???", "s", "html", "s.html"},
		{"notes", "s", "htm", "notes.html"},
		{"file.txt", "s", "html", "file.txt.html"},
	}
	for _, tt := range tests {
		if got := GetFilename(tt.requested, tt.fallback, tt.format); got != tt.want {
			t.Errorf("GetFilename(%q, %q, %q) = %q, want %q", tt.requested, tt.fallback, tt.format, got, tt.want)
		}
	}
}

func TestGetExt(t *testing.T) {
	if got := GetExt("HTML"); got != "html" {
		t.Errorf("GetExt(HTML) = %q", got)
	}
	if got := GetExt("pdf"); got != "html" {
		t.Errorf("GetExt(pdf) = %q", got)
	}
}
