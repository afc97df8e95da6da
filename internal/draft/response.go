package draft

// Origin tells the caller where a build came from
type Origin string

const (
	OriginGrounded   Origin = "grounded"
	OriginCache      Origin = "cache"
	OriginStaleCache Origin = "stale-cache"
	OriginError      Origin = "error"
)

// Response is the public result of a build request. Exactly one of the
// success fields (Text, PatchDetected) or failure fields (Message, Retryable)
// is meaningful, selected by OK.
type Response struct {
	OK            bool   `json:"ok"`
	Origin        Origin `json:"source"`
	PatchDetected string `json:"patchDetected,omitempty"`
	Text          string `json:"text,omitempty"`
	Message       string `json:"message,omitempty"`
	Retryable     bool   `json:"canRetry,omitempty"`
}

// Success builds an ok response
func Success(origin Origin, patch, text string) Response {
	return Response{OK: true, Origin: origin, PatchDetected: patch, Text: text}
}

// Failure builds an error response
func Failure(message string, retryable bool) Response {
	return Response{OK: false, Origin: OriginError, Message: message, Retryable: retryable}
}
