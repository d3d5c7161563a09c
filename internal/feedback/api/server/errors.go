package server

import (
	"encoding/json"
)

// Error is the envelope every failure is serialized into: a status-like
// numeric code and a short human-readable message.
type Error struct {
	Code int    `json:"code"`
	Err  string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		se.Err = err.Error()

		b, err := json.Marshal(se)
		if err != nil {
			return []byte(`{
				"error": "marshal error"
			  }`)
		}

		return b
	}

	return b
}
