package money

import "testing"

func TestToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"100", 10000},
		{"33.33", 3333},
		{"33.335", 3334},  // half rounds away from zero
		{"-33.335", -3334},
		{"0.004", 0},
		{"0.005", 1},
		{" 12.50 ", 1250},
	}

	for _, c := range cases {
		got, err := ToCents(c.in)
		if err != nil {
			t.Fatalf("ToCents(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ToCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestToCentsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "12.3.4", "$100"} {
		if _, err := ToCents(in); err == nil {
			t.Errorf("ToCents(%q) expected error, got nil", in)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(333400, "MXN"); got != "3334.00 MXN" {
		t.Errorf("Expected '3334.00 MXN', got %q", got)
	}
	if got := Format(5, "USD"); got != "0.05 USD" {
		t.Errorf("Expected '0.05 USD', got %q", got)
	}
	if got := Format(1250, ""); got != "12.50" {
		t.Errorf("Expected '12.50', got %q", got)
	}
}
