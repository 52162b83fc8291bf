package models

import (
	"testing"
	"time"
)

func TestSetPasswordNeverStoresPlaintext(t *testing.T) {
	var u User
	if err := u.SetPassword("hunter2secret"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.PasswordHash == "hunter2secret" || u.PasswordHash == "" {
		t.Fatal("password stored in plaintext or not at all")
	}
	if !u.CheckPassword("hunter2secret") {
		t.Fatal("correct password rejected")
	}
	if u.CheckPassword("wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestGenerateOTPSixDigits(t *testing.T) {
	var u User
	code := u.GenerateOTP(10 * time.Minute)
	if len(code) != 6 {
		t.Fatalf("code length = %d, want 6", len(code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("code %q contains non-digit %q", code, r)
		}
	}
	if u.OTPExpiry == nil || time.Until(*u.OTPExpiry) <= 0 {
		t.Fatal("expiry not set in the future")
	}
}

func TestGenerateOTPHonorsTTL(t *testing.T) {
	var u User
	u.GenerateOTP(time.Hour)
	left := time.Until(*u.OTPExpiry)
	if left < 59*time.Minute || left > time.Hour {
		t.Fatalf("expiry %v from now, want about an hour", left)
	}
}

func TestVerifyOTPSingleUse(t *testing.T) {
	var u User
	code := u.GenerateOTP(10 * time.Minute)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if u.VerifyOTP(wrong) {
		t.Fatal("wrong code accepted")
	}
	if !u.VerifyOTP(code) {
		t.Fatal("valid code rejected")
	}
	if !u.IsVerified {
		t.Fatal("user not marked verified")
	}
	if u.VerifyOTP(code) {
		t.Fatal("code accepted twice")
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	var u User
	code := u.GenerateOTP(10 * time.Minute)
	past := time.Now().Add(-time.Minute)
	u.OTPExpiry = &past

	if u.VerifyOTP(code) {
		t.Fatal("expired code accepted")
	}
	if u.IsVerified {
		t.Fatal("user marked verified by an expired code")
	}
}

func TestOrderIsTerminal(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{StatusPending, false},
		{StatusConfirmed, false},
		{StatusProcessing, false},
		{StatusShipped, false},
		{StatusDelivered, true},
		{StatusCancelled, true},
		{StatusCompleted, false},
	}
	for _, tc := range cases {
		o := Order{Status: tc.status}
		if o.IsTerminal() != tc.want {
			t.Fatalf("IsTerminal(%s) = %v, want %v", tc.status, !tc.want, tc.want)
		}
	}
}
