package server

// RouteRequest asks for the best route between two routers.
type RouteRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// RouteResult is the best route found for a RouteRequest. CompressedAt is the
// router where traffic is compressed, if any.
type RouteResult struct {
	Latency      int      `json:"latency"`
	Path         []string `json:"path"`
	CompressedAt string   `json:"compressedAt,omitempty"`
}

// AllocationRequest asks for a distribution of fragments over data centers.
type AllocationRequest struct {
	BaseRisks []int64 `json:"baseRisks"`
	Fragments int     `json:"fragments"`
}

// AllocationResult is the number of fragments per data center and the
// resulting maximum risk, in base 10 since it can exceed 64 bits.
type AllocationResult struct {
	MaxRisk   string `json:"maxRisk"`
	Fragments []int  `json:"fragments"`
}

// Fragment is the JSON form of fragments.Fragment.
type Fragment struct {
	Data     string `json:"data"`
	Checksum string `json:"checksum"`
}

// ReconstructionRequest holds fragments keyed by sequence number.
type ReconstructionRequest struct {
	Fragments map[int]Fragment `json:"fragments"`
}

type ReconstructionResult struct {
	Data string `json:"data"`
}

// ErrorResult is the body of every error response. Kind and Key are only set
// for fragment errors.
type ErrorResult struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Key   *int   `json:"key,omitempty"`
}

// ImplResponse is the status code and body produced by a Service method.
type ImplResponse struct {
	Code int
	Body any
}

// Response returns an ImplResponse with the given code and body.
func Response(code int, body any) ImplResponse {
	return ImplResponse{Code: code, Body: body}
}
