package mail

import (
	"fmt"
	"html"
)

func verificationBody(link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Verify Your Email</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(to right, #4CAF50, #45a049); padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">Verify Your Email</h1>
  </div>
  <div style="background-color: #f9f9f9; padding: 20px; border-radius: 0 0 5px 5px;">
    <p>Hello,</p>
    <p>Thank you for registering. To activate your account, please verify your email address by clicking the button below.</p>
    <p style="text-align: center;">
      <a href="%s" target="_blank" style="display: inline-block; padding: 12px 24px; background-color: #00a63d; color: #ffffff; text-decoration: none; border-radius: 5px; font-weight: bold;">Verify Your Email</a>
    </p>
    <p>If you didn't create an account with us, please ignore this email.</p>
  </div>
  <div style="text-align: center; margin-top: 20px; color: #888; font-size: 0.8em;">
    <p>This is an automated message, please do not reply to this email.</p>
  </div>
</body>
</html>`, html.EscapeString(link))
}

func contactBody(fromName, fromEmail, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Contact Form Message</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2>New contact form message</h2>
  <p><strong>Name:</strong> %s</p>
  <p><strong>Email:</strong> %s</p>
  <p><strong>Message:</strong></p>
  <p>%s</p>
</body>
</html>`, html.EscapeString(fromName), html.EscapeString(fromEmail), html.EscapeString(message))
}
