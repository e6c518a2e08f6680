package types

// Event is a structured record of a state change, surfaced to off-chain
// consumers such as the matching agent.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
