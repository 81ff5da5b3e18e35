package faults

// ErrorSpec describes the synthetic error a fault returns to callers of the
// emulated service.
type ErrorSpec struct {
	StatusCode int    `json:"statusCode,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// FaultSpec is the fault definition sent to the chaos API. All fields are
// optional; an empty field matches everything on the emulator side.
type FaultSpec struct {
	Service     string     `json:"service,omitempty"`
	Region      string     `json:"region,omitempty"`
	Operation   string     `json:"operation,omitempty"`
	Probability float64    `json:"probability,omitempty"`
	Error       *ErrorSpec `json:"error,omitempty"`
}

// Fault is an active injected condition as reported by the chaos API.
// The ID is issued by the emulator on injection and is the handle for
// targeted removal.
type Fault struct {
	ID string `json:"id"`
	FaultSpec
}

// Target returns a short human-readable description of what the fault
// applies to, for listings and log lines.
func (f Fault) Target() string {
	switch {
	case f.Service != "" && f.Region != "":
		return f.Service + "/" + f.Region
	case f.Service != "":
		return f.Service
	case f.Region != "":
		return f.Region
	default:
		return "*"
	}
}

// Effects is the network-effects configuration of the chaos API. A zero
// Latency means no artificial delay.
type Effects struct {
	Latency int `json:"latency"`
}
