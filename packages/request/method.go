package request

// Method is an HTTP request method. The wire token is the method name
// itself.
type Method string

// The fixed set of supported methods.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

var methods = [...]Method{
	MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch,
	MethodHead, MethodOptions, MethodTrace, MethodConnect,
}

// ParseMethod maps a method token to a Method, reporting false for tokens
// outside the supported set.
func ParseMethod(s string) (Method, bool) {
	for _, m := range methods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

func (m Method) String() string { return string(m) }
