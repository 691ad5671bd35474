package speech

import "testing"

func TestForPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"ten digits", "8775551234",
			"eight seven seven, five five five, one two three four"},
		{"formatted ten digits", "(877) 555-1234",
			"eight seven seven, five five five, one two three four"},
		{"eleven with leading one", "+1 877 555 1234",
			"one, eight seven seven, five five five, one two three four"},
		{"eleven without leading one", "98775551234",
			"nine eight seven seven five five five one two three four"},
		{"short", "411", "four one one"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForPhone(tt.phone); got != tt.want {
				t.Errorf("ForPhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestForDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"first of month", "2026-01-01", "January first"},
		{"thirty-first", "2026-12-31", "December thirty-first"},
		{"teens keep irregular word", "2026-06-12", "June twelfth"},
		{"twenty-second", "2026-03-22", "March twenty-second"},
		{"datetime suffix ignored", "2026-09-03T14:00:00", "September third"},
		{"zulu suffix ignored", "2026-09-03T14:00:00Z", "September third"},
		{"garbage passes through", "next tuesday", "next tuesday"},
		{"empty passes through", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForDate(tt.in); got != tt.want {
				t.Errorf("ForDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestForTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"on the hour pm", "14:00", "two PM"},
		{"half past midnight", "00:30", "twelve thirty AM"},
		{"half past pm", "16:30", "four thirty PM"},
		{"odd minutes spoken as digits", "09:15", "nine 15 AM"},
		{"noon", "12:00", "twelve PM"},
		{"from iso datetime", "2026-01-05T10:00:00", "ten AM"},
		{"garbage passes through", "soonish", "soonish"},
		{"no minutes passes through", "14", "14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForTime(tt.in); got != tt.want {
				t.Errorf("ForTime(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"ten AM"}, "ten AM"},
		{"pair", []string{"ten AM", "two PM"}, "ten AM, and two PM"},
		{"triple", []string{"ten AM", "two PM", "four thirty PM"},
			"ten AM, two PM, and four thirty PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinList(tt.items); got != tt.want {
				t.Errorf("JoinList(%v) = %q, want %q", tt.items, got, tt.want)
			}
		})
	}
}
