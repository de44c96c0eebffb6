package services

import "testing"

func TestParseModParams(t *testing.T) {
	tests := []struct {
		name     string
		modType  string
		modID    string
		wantType string
		wantID   int64
		wantOK   bool
	}{
		{"valid pair", "videoactivity", "42", "videoactivity", 42, true},
		{"empty type", "", "42", "", 0, false},
		{"uppercase type", "Quiz", "42", "", 0, false},
		{"type with slash", "quiz/../etc", "42", "", 0, false},
		{"non-numeric id", "quiz", "abc", "", 0, false},
		{"zero id", "quiz", "0", "", 0, false},
		{"negative id", "quiz", "-3", "", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotType, gotID, ok := ParseModParams(tc.modType, tc.modID)
			if ok != tc.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tc.wantOK, ok)
			}
			if gotType != tc.wantType || gotID != tc.wantID {
				t.Errorf("Expected (%q, %d), got (%q, %d)", tc.wantType, tc.wantID, gotType, gotID)
			}
		})
	}
}

func TestCanonicalModuleURL(t *testing.T) {
	got := CanonicalModuleURL("http://localhost:8080", 7, "videoactivity", 42)
	want := "http://localhost:8080/course/view.php?id=7&modtype=videoactivity&modid=42"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtractEmbedSrc(t *testing.T) {
	tests := []struct {
		name     string
		embed    string
		expected string
	}{
		{
			"iframe embed",
			`<iframe width="560" height="315" src="https://www.youtube.com/embed/dQw4w9WgXcQ" frameborder="0"></iframe>`,
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{"bare url", "https://www.youtube.com/embed/dQw4w9WgXcQ", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractEmbedSrc(tc.embed); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestDisplaySize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{512, "512 bytes"},
		{2048, "2.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tc := range tests {
		if got := DisplaySize(tc.bytes); got != tc.expected {
			t.Errorf("DisplaySize(%d): expected %q, got %q", tc.bytes, tc.expected, got)
		}
	}
}

func TestFileExt(t *testing.T) {
	tests := []struct {
		fileName string
		expected string
	}{
		{"transcript.PDF", "pdf"},
		{"notes.txt", "txt"},
		{"archive.tar.gz", "gz"},
		{"noextension", ""},
		{"trailingdot.", ""},
	}

	for _, tc := range tests {
		if got := FileExt(tc.fileName); got != tc.expected {
			t.Errorf("FileExt(%q): expected %q, got %q", tc.fileName, tc.expected, got)
		}
	}
}
