package htmlsanitize

import "testing"

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Jane Doe", "Jane Doe"},
		{"tags removed", "<b>Jane</b> Doe", "Jane Doe"},
		{"script removed entirely", `<script>alert("x")</script>Eng`, "Eng"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.input); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
