package content

import "testing"

func TestResourceID(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		title    string
		want     string
	}{
		{"explicit id wins", "my-id", "Counting Songs for Car Rides", "my-id"},
		{"pattern match", "", "Counting Songs for Car Rides", "counting-songs"},
		{"pattern match is case-insensitive", "", "SNACK MATH at the table", "snack-math"},
		{"first pattern wins", "", "Pattern Number Hunt", "number-hunt"},
		{"slug fallback", "", "Ten Wiggly Fingers!", "ten-wiggly-fingers"},
		{"slug strips punctuation", "", "1, 2, 3... Go!", "1-2-3-go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResourceID(tt.explicit, tt.title); got != tt.want {
				t.Errorf("ResourceID(%q, %q) = %q, want %q", tt.explicit, tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ten Wiggly Fingers!", "ten-wiggly-fingers"},
		{"  spaced   out  ", "spaced-out"},
		{"already-hyphenated", "already-hyphenated"},
		{"¡Cuenta conmigo!", "cuenta-conmigo"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
