// Package email sends operational notifications.
//
// EmailSender has two implementations: a Postmark client for production and
// DevSender, which writes messages to a local directory. Both validate
// SendEmailParams before doing any work and wrap provider failures in
// ErrFailedToSendEmail.
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "oncall@example.com,data@example.com",
//	    Subject:  "dataguard: run failed",
//	    BodyText: body,
//	    Tag:      "dataguard-run",
//	})
package email
