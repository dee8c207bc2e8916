package models

// DeliveryMethod selects how the dashboard sends a two-factor code.
type DeliveryMethod string

const (
	// DeliverySMS is code-via-text, the only delivery method the
	// dashboard supports for API clients.
	DeliverySMS DeliveryMethod = "sms"

	// DeliveryEmail and DeliveryPhone exist in the dashboard's web UI
	// but are not implemented here. Requesting either fails with
	// ErrUnsupportedChallengeMethod.
	DeliveryEmail DeliveryMethod = "email"
	DeliveryPhone DeliveryMethod = "phone"
)

// Credential is the caller-supplied login material. It is held in
// memory for the lifetime of the client so that an expired session can
// be re-established transparently, and is never written to disk.
type Credential struct {
	Identity  string         `yaml:"-"`
	Secret    string         `yaml:"-"`
	TwoFactor DeliveryMethod `yaml:"-"`
}

// TwoFactorCodeProvider supplies an out-of-band code during a
// challenge. It blocks the calling goroutine until a code is
// available; callers wanting a timeout wrap the provider themselves.
type TwoFactorCodeProvider func(method DeliveryMethod) (string, error)

// ChallengeState tracks an in-progress two-factor exchange. It exists
// only between the code request and a terminal submission outcome.
type ChallengeState struct {
	ChallengeType     string
	Method            DeliveryMethod
	AttemptsRemaining int
}
