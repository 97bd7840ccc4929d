package domain

// ErrorKind classifies why a generation round trip failed
type ErrorKind int

const (
	// ErrorKindUnreachable means the inference server could not be contacted
	ErrorKindUnreachable ErrorKind = iota
	// ErrorKindTimeout means the server did not answer within the configured budget
	ErrorKindTimeout
	// ErrorKindStatus means the server answered with a non-200 status
	ErrorKindStatus
	// ErrorKindMalformed means the server answered 200 with a body we could not decode
	ErrorKindMalformed
	// ErrorKindUnexpected covers everything else
	ErrorKindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnreachable:
		return "unreachable"
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindStatus:
		return "status"
	case ErrorKindMalformed:
		return "malformed"
	default:
		return "unexpected"
	}
}

// Upstream reports whether the failure is attributable to the inference server
// being down or slow, as opposed to answering badly.
func (k ErrorKind) Upstream() bool {
	return k == ErrorKindUnreachable || k == ErrorKindTimeout
}
