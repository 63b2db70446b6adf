package remote

import "encoding/json"

// CallEnvelope is one request on the endpoint. The id correlates the
// eventual result; async calls may complete out of order.
type CallEnvelope struct {
	ID       uint64            `json:"id"`
	Resource string            `json:"resource"`
	Method   string            `json:"method"`
	Async    bool              `json:"async,omitempty"`
	Args     []json.RawMessage `json:"args,omitempty"`
}

// ResultEnvelope is one response. Exactly one of Value and Err is set.
type ResultEnvelope struct {
	ID    uint64          `json:"id"`
	Value json.RawMessage `json:"value,omitempty"`
	Err   *RemoteError    `json:"error,omitempty"`
}
