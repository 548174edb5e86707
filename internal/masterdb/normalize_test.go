package masterdb

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"+91 98765-43210", "919876543210"},
		{"(040) 1234 5678", "04012345678"},
		{"abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPhoneSuffix(t *testing.T) {
	if got := PhoneSuffix("+91 98765 43210"); got != "9876543210" {
		t.Fatalf("PhoneSuffix = %q", got)
	}
	// Shorter numbers pass through whole.
	if got := PhoneSuffix("12345"); got != "12345" {
		t.Fatalf("PhoneSuffix = %q", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Dr.Rao@Example.COM "); got != "dr.rao@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestNormalizeUUID(t *testing.T) {
	if got := NormalizeUUID("123e4567-e89b-12d3-a456-426614174000"); got != "123e4567e89b12d3a456426614174000" {
		t.Fatalf("NormalizeUUID = %q", got)
	}
	// Non-uuid identities survive untouched.
	if got := NormalizeUUID(" 42 "); got != "42" {
		t.Fatalf("NormalizeUUID = %q", got)
	}
}

func TestGenerateTemporaryPassword(t *testing.T) {
	for _, n := range []int{0, 3, 6, 12} {
		pw, err := GenerateTemporaryPassword(n)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(pw) < 6 {
			t.Fatalf("password %q shorter than 6", pw)
		}
		for _, r := range pw {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				t.Fatalf("password %q has non-alphanumeric %q", pw, r)
			}
		}
	}

	a, _ := GenerateTemporaryPassword(12)
	b, _ := GenerateTemporaryPassword(12)
	if a == b {
		t.Fatal("two generated passwords are identical")
	}
}
