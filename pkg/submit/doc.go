// Package submit provides form.SubmitFunc implementations.
//
// Webhook posts the submitted values as JSON to an HTTP endpoint:
//
//	{"form": "signup", "id": "<draft id>", "submitted_at": "...", "values": {...}}
//
// Each attempt has its own timeout. Temporary failures (network errors, 5xx,
// 408, 425, 429) are retried with backoff; other 4xx responses fail at once
// with ErrPermanentFailure. With WithSecret the body is signed with
// HMAC-SHA256 over "<timestamp>.<body>" and receivers check it with
// ParseSignature and Verify.
//
//	f.HandleSubmit(submit.Webhook(url, submit.WithSecret(secret)))
//
// The form name and draft id come from WithMeta on the submit context. Log
// records submissions without delivering them and Chain combines submitters.
package submit
