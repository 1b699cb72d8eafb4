// Package webhook posts JSON events to an HTTP endpoint.
//
// Deliveries are retried with exponential backoff on network errors, 5xx
// responses and 408/425/429. Other 4xx responses fail immediately with
// ErrPermanentFailure. When a secret is configured every request carries
// X-Dataguard-Signature, X-Dataguard-Timestamp and X-Dataguard-Delivery;
// receivers check them with SignatureFromHeader and Verify.
//
//	sender, err := webhook.NewSender(cfg, webhook.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	err = sender.Send(ctx, event)
package webhook
