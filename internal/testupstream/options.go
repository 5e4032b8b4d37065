package testupstream

// Option configures an Upstream.
type Option func(*Upstream)

// WithCredentials sets the key pair generateToken accepts.
func WithCredentials(secretKey, clientKey string) Option {
	return func(u *Upstream) {
		u.creds = Credentials{SecretKey: secretKey, ClientKey: clientKey}
	}
}

// WithTokenStatus makes generateToken answer status instead of issuing tokens.
func WithTokenStatus(status int) Option {
	return func(u *Upstream) { u.tokenStatus = status }
}

// WithBehavior installs an override for an endpoint path.
func WithBehavior(path string, b Behavior) Option {
	return func(u *Upstream) { u.behaviors[path] = b }
}
