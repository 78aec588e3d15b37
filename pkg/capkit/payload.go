package capkit

import (
	"github.com/capforge/capsolve/pkg/errors"
	json "github.com/json-iterator/go"
)

// RedeemPayload is the JSON document submitted back to the
// verification endpoint. Solutions holds one nonce per challenge, in
// challenge order; position is the only link between a nonce and the
// challenge it answers.
type RedeemPayload struct {
	Token     string   `json:"token"`
	Solutions []uint64 `json:"solutions"`
}

// EncodeRedeemPayload serializes the redeem payload for token with the
// given ordered nonces. A nil slice is encoded as an empty array so a
// zero-challenge batch still redeems cleanly.
func EncodeRedeemPayload(token string, nonces []uint64) ([]byte, error) {
	if nonces == nil {
		nonces = []uint64{}
	}
	raw, err := json.Marshal(RedeemPayload{Token: token, Solutions: nonces})
	if err != nil {
		return nil, errors.Errorf("marshal redeem payload: %w", err)
	}
	return raw, nil
}

// DecodeRedeemPayload parses a redeem payload document, typically on
// the verifying side.
func DecodeRedeemPayload(raw []byte) (RedeemPayload, error) {
	var payload RedeemPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return RedeemPayload{}, errors.Errorf("unmarshal redeem payload: %w", err)
	}
	return payload, nil
}
