package auth

import "testing"

func TestNormalizeRUT(t *testing.T) {
	cases := []struct{ in, want string }{
		{"12.345.678-5", "123456785"},
		{" 11111111-1 ", "111111111"},
		{"9.999.999-k", "9999999K"},
	}
	for _, tc := range cases {
		if got := NormalizeRUT(tc.in); got != tc.want {
			t.Fatalf("NormalizeRUT(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateRUT(t *testing.T) {
	valid := []string{
		"11.111.111-1",
		"12.345.678-5",
		"22222222-2",
	}
	for _, rut := range valid {
		if err := ValidateRUT(rut); err != nil {
			t.Fatalf("ValidateRUT(%q) = %v, want nil", rut, err)
		}
	}

	invalid := []string{
		"",
		"5",
		"12.345.678-9",
		"11.111.111-K",
		"abcdefgh-1",
	}
	for _, rut := range invalid {
		if err := ValidateRUT(rut); err == nil {
			t.Fatalf("ValidateRUT(%q) = nil, want error", rut)
		}
	}
}
