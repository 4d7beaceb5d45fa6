package email_test

import (
	"strings"
	"testing"

	"github.com/doccluster/auth-service/internal/domain"
	"github.com/doccluster/auth-service/internal/email"
)

func TestOTPMessage_RegisterFlow(t *testing.T) {
	subject, body := email.OTPMessage("Alice", "1234", domain.FlowRegister)

	if subject != "Your OTP for email verification" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "1234") {
		t.Error("body is missing the code")
	}
	if !strings.Contains(body, "Alice") {
		t.Error("body is missing the recipient name")
	}
	if !strings.Contains(body, "verify your email") {
		t.Errorf("body does not carry the register wording: %s", body)
	}
}

func TestOTPMessage_LoginFlow(t *testing.T) {
	subject, body := email.OTPMessage("Alice", "5678", domain.FlowLogin)

	if subject != "Your OTP for login" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "5678") {
		t.Error("body is missing the code")
	}
	if !strings.Contains(body, "log in") {
		t.Errorf("body does not carry the login wording: %s", body)
	}
}

func TestOTPMessage_StatesValidityWindow(t *testing.T) {
	_, body := email.OTPMessage("Alice", "1234", domain.FlowRegister)

	if !strings.Contains(body, "10 minutes") {
		t.Error("body does not state the validity window")
	}
}
