package mail

import (
	"fmt"
	"time"
)

const OtpSubject = "Your OTP for Admin Registration - Al Jannat"

// OtpBody renders the verification message for code valid for ttl.
func OtpBody(code string, ttl time.Duration) string {
	minutes := int(ttl.Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Your OTP is: %s. It is valid for %d minutes.", code, minutes)
}
