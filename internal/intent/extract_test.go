package intent

import "testing"

func TestExtractItemName(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"hindi vocabulary", "मैंने चार्जर अलमारी में रखा", "चार्जर", true},
		{"english vocabulary", "I placed the Wallet in my bag", "wallet", true},
		{"phrase stripping", "मैंने किताब रखा अलमारी में", "किताब", true},
		{"no item", "टेबल साफ है", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractItemName(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ExtractItemName(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractItemName(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractLocation(t *testing.T) {
	if got := ExtractLocation("मैंने चाबी बैग में रखी"); got != "बैग" {
		t.Errorf("got %q, want %q", got, "बैग")
	}
	if got := ExtractLocation("I kept it in the drawer"); got != "drawer" {
		t.Errorf("got %q, want %q", got, "drawer")
	}
	// No place word: the unspecified sentinel, never an empty string.
	if got := ExtractLocation("मैंने चाबी रखी"); got != LocationUnspecified {
		t.Errorf("got %q, want LocationUnspecified", got)
	}
}

func TestExtractQuerySubject(t *testing.T) {
	if got := ExtractQuerySubject("चश्मा कहाँ है"); got != "चश्मा" {
		t.Errorf("got %q, want %q", got, "चश्मा")
	}
	// Unknown subject: query markers stripped, whitespace trimmed.
	if got := ExtractQuerySubject("रिमोट कहाँ है"); got != "रिमोट" {
		t.Errorf("got %q, want %q", got, "रिमोट")
	}
}
