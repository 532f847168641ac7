package email

import "context"

// SendWelcomeEmail thanks a new registrant for signing up.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, firstName string) error {
	data := map[string]string{
		"UserFirstName": firstName,
	}

	return c.SendEmail(ctx, to, "Thanks for registering!", TemplateWelcome, data)
}
