package form

import "testing"

func TestForm_SubmitGatedOnRequiredFields(t *testing.T) {
	t.Parallel()

	f := New("email", "password")
	if f.CanSubmit() {
		t.Fatalf("empty form allowed submit")
	}

	f.SetField("email", "a@b.co")
	if f.CanSubmit() {
		t.Fatalf("partially filled form allowed submit")
	}

	f.SetField("password", "   ")
	if f.CanSubmit() {
		t.Fatalf("whitespace-only field counted as filled")
	}

	f.SetField("password", "Secret123")
	if !f.CanSubmit() {
		t.Fatalf("complete form blocked submit")
	}
}

func TestForm_BeginSubmitPreventsDuplicates(t *testing.T) {
	t.Parallel()

	f := New("email")
	f.SetField("email", "a@b.co")

	if !f.BeginSubmit() {
		t.Fatalf("first submit rejected")
	}
	if f.BeginSubmit() {
		t.Fatalf("duplicate submit allowed while in flight")
	}
	f.EndSubmit()
	if !f.BeginSubmit() {
		t.Fatalf("submit rejected after the request resolved")
	}
}

func TestForm_NoticeExpiryIgnoresStaleSeq(t *testing.T) {
	t.Parallel()

	f := New()
	seq1 := f.SetNotice("first", SeverityInfo)
	seq2 := f.SetNotice("second", SeverityError)

	f.ExpireNotice(seq1)
	if fb, ok := f.Notice(); !ok || fb.Text != "second" {
		t.Fatalf("stale expiry cleared the replacement notice; got %+v ok=%v", fb, ok)
	}

	f.ExpireNotice(seq2)
	if _, ok := f.Notice(); ok {
		t.Fatalf("current expiry did not clear the notice")
	}
}

func TestForm_EditClearsFieldError(t *testing.T) {
	t.Parallel()

	f := New("email")
	seq := f.SetFieldError("email", "invalid email")
	if _, ok := f.FieldError("email"); !ok {
		t.Fatalf("field error not recorded")
	}

	f.SetField("email", "a@b.co")
	if _, ok := f.FieldError("email"); ok {
		t.Fatalf("editing the field did not clear its error")
	}

	// The pending timer for the cleared error must be a no-op, even after a
	// new error replaced it.
	f.SetFieldError("email", "taken")
	f.ExpireFieldError("email", seq)
	if fb, ok := f.FieldError("email"); !ok || fb.Text != "taken" {
		t.Fatalf("stale timer cleared the newer error; got %+v ok=%v", fb, ok)
	}
}

func TestForm_FieldErrorReplacedWholesale(t *testing.T) {
	t.Parallel()

	f := New()
	f.SetFieldError("email", "first")
	f.SetFieldError("email", "second")
	if fb, _ := f.FieldError("email"); fb.Text != "second" {
		t.Fatalf("expected the newer error; got %q", fb.Text)
	}
}

func TestForm_ApplyServerErrors(t *testing.T) {
	t.Parallel()

	f := New("email", "password")
	tokens := f.ApplyServerErrors(map[string]string{
		"email":    "already registered",
		"password": "too weak",
	})
	if len(tokens) != 2 {
		t.Fatalf("expected 2 expiry tokens; got %d", len(tokens))
	}
	for field, seq := range tokens {
		fb, ok := f.FieldError(field)
		if !ok || fb.Seq != seq {
			t.Fatalf("token mismatch for %q: %+v ok=%v", field, fb, ok)
		}
	}
}

func TestForm_ResetClearsEverything(t *testing.T) {
	t.Parallel()

	f := New("email")
	f.SetField("email", "a@b.co")
	f.SetNotice("hello", SeverityInfo)
	f.SetFieldError("email", "nope")
	if !f.BeginSubmit() {
		t.Fatalf("submit rejected")
	}

	f.Reset()
	if f.Field("email") != "" {
		t.Fatalf("field survived reset")
	}
	if _, ok := f.Notice(); ok {
		t.Fatalf("notice survived reset")
	}
	if _, ok := f.FieldError("email"); ok {
		t.Fatalf("field error survived reset")
	}
	if f.Submitting() {
		t.Fatalf("in-flight flag survived reset")
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.co", "user.name@example.com", " padded@example.com "}
	for _, s := range valid {
		if !ValidEmail(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "plain", "a@b", "@example.com", "a@.com", "a@b.", "two@@b.co"}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestValidPassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pw string
		ok bool
	}{
		{"Secret123", true},
		{"secret123", false},  // no uppercase
		{"SECRETXYZ", false},  // no digit
		{"S1abc", false},      // too short
		{"Ab3defgh", true},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidPassword(c.pw); got != c.ok {
			t.Fatalf("ValidPassword(%q) = %v; expected %v", c.pw, got, c.ok)
		}
	}
}
