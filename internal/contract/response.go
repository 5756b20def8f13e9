package contract

import "counter-contract/go-backend/internal/domains/contracts/ports"

// Response is what a successful mutation hands back to the host: a list of
// attributes for indexing and nothing else.
type Response struct {
	Attributes []ports.Attribute `json:"attributes"`
}

func NewResponse() *Response {
	return &Response{Attributes: make([]ports.Attribute, 0, 3)}
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, ports.Attribute{Key: key, Value: value})
	return r
}

// Attribute returns the first value recorded under key.
func (r *Response) Attribute(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}
