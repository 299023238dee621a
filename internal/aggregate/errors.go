package aggregate

// ErrorKind classifies a failed refresh.
type ErrorKind int

const (
	// KindGeneric is any failure that is not a connectivity problem.
	KindGeneric ErrorKind = iota
	// KindConnectivity means the mirror could not be reached.
	KindConnectivity
)

func (k ErrorKind) String() string {
	if k == KindConnectivity {
		return "connectivity"
	}
	return "generic"
}

// RefreshError is returned when a refresh produced no usable data.
type RefreshError struct {
	Kind ErrorKind
	Err  error
}

// Message returns the text shown to the user.
func (e *RefreshError) Message() string {
	if e.Kind == KindConnectivity {
		return "Could not connect to server. Please check your internet connection."
	}
	return "An unexpected error occurred."
}

func (e *RefreshError) Error() string {
	if e.Err == nil {
		return e.Message()
	}
	return e.Message() + " (" + e.Err.Error() + ")"
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}
