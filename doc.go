// Package breeze is a client for the Breeze ChMS REST API. Every response is
// normalized before it is returned: numeric strings become numbers, "0"/"1"
// flags become booleans, timestamps become time.Time values, JSON documents
// embedded in strings are decoded, and index-keyed objects that stand in for
// lists come back as lists.
//
// Quick start:
//
//	c, err := breeze.New("https://demo.breezechms.com", apiKey,
//	    breeze.WithLogger(logger),
//	    breeze.WithSchemaCacheTTL(10*time.Minute),
//	)
//	if err != nil {
//	    return err
//	}
//	people, err := c.ListPeople(ctx, breeze.ListPeopleParams{Details: true})
//
// Or, reading BREEZE_URL, BREEZE_API_KEY and the optional BREEZE_* settings
// from the environment:
//
//	c, err := breeze.NewFromEnv()
//
// Errors:
//
// Requests that keep failing at the network level or with 5xx responses are
// retried with a short linear backoff and end in a *RequestError matching
// ErrRequestFailed. Responses the service rejects (4xx, an error payload or a
// bare false) fail immediately with a *RemoteError matching
// ErrRemoteRejected; its Payload holds what the service sent.
//
// Account-log entries with an action this package does not recognize are
// left out of AccountLog results and reported through an error matching
// ErrUnrecognizedAction, alongside the entries that did normalize. Use
// WithAccountLogActions to accept additional names.
//
// The normalize package exposes the normalization rules on their own, for
// payloads obtained some other way.
package breeze
