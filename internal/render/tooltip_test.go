package render

import "testing"

func TestFormatSingle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1234567.891", "1,234,567.89"},
		{"95", "95.00"},
		{"-1200.5", "-1,200.50"},
		{"temple", "temple"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := formatSingle(tt.in); got != tt.want {
			t.Errorf("formatSingle(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComposeHoverSingleValue(t *testing.T) {
	got := composeHover("Kathmandu", true, []hoverEntry{{label: "Population", values: []string{"1000"}}})
	want := "<b>District:</b> Kathmandu<br><b>Population:</b> 1,000.00"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestComposeHoverLetteredList(t *testing.T) {
	got := composeHover("Pokhara", false, []hoverEntry{{label: "Sites", values: []string{"temple", "lake", "cave"}}})
	want := "<b>Sites:</b><br>  a. temple<br>  b. lake<br>  c. cave"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestComposeHoverEmpty(t *testing.T) {
	if got := composeHover("Pokhara", false, nil); got != "" {
		t.Errorf("empty tooltip = %q, want empty string", got)
	}
	// 名称开关独立于层条目
	if got := composeHover("Pokhara", true, nil); got != "<b>District:</b> Pokhara" {
		t.Errorf("name-only tooltip = %q", got)
	}
}
