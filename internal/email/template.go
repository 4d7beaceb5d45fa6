package email

import (
	"fmt"

	"github.com/doccluster/auth-service/internal/domain"
)

const (
	subjectRegister = "Your OTP for email verification"
	subjectLogin    = "Your OTP for login"
)

// OTPMessage renders the flow-specific subject and HTML body for a code
// email. Register and login differ only in wording; both carry the
// 10-minute validity note.
func OTPMessage(name, code string, flow domain.FlowType) (subject, body string) {
	lead := "Use the one-time passcode (OTP) below to securely log in to your account:"
	closing := "If you did not attempt to log in, please ignore this email."
	subject = subjectLogin

	if flow == domain.FlowRegister {
		lead = "Welcome! Please verify your email address by entering the one-time passcode (OTP) below:"
		closing = "If you did not request this verification, you can safely ignore this email."
		subject = subjectRegister
	}

	body = fmt.Sprintf(`
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#ffffff;">
  <div style="max-width:600px;margin:0 auto;padding:24px;border:1px solid #E5E7EB;border-radius:12px;background-color:#EFF6FF;">
    <p style="color:#1E3A8A;font-size:20px;text-align:center;">Hello <strong>%s</strong>,</p>
    <p style="color:#4B5563;font-size:16px;text-align:center;">%s</p>
    <div style="text-align:center;margin:24px 0;">
      <span style="font-size:30px;font-weight:bold;color:#2563EB;">%s</span>
    </div>
    <p style="color:#4B5563;font-size:16px;text-align:center;">
      This OTP is valid for the next <strong>10 minutes</strong>. Please keep it secure and do not share it with anyone.
    </p>
    <p style="color:#4B5563;font-size:16px;text-align:center;">%s</p>
  </div>
</body>`, name, lead, code, closing)

	return subject, body
}
