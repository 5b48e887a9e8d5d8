package service

import "fmt"

func confirmationEmailTemplate(name, confirmURL, appName string) (string, string) {
	subject := "Confirm Your Email Address"
	body := fmt.Sprintf(`Welcome, %s!

Thank you for registering. Please confirm your email address by opening this link:
%s

This link will expire in 24 hours.

Best regards,
The %s Team`, name, confirmURL, appName)

	return subject, body
}
