package handler

import (
	"bytes"
	"encoding/json"

	"github.com/bookreview/catalog-service/internal/core/ports"
)

var jsonNull = []byte("null")

// ratingField and commentField never fail decoding. A value of the wrong
// JSON type is recorded as malformed so the service can report it in its
// own check order.
type ratingField ports.RatingField

func (f *ratingField) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, jsonNull) {
		return nil
	}
	var n json.Number
	if b[0] == '"' || json.Unmarshal(b, &n) != nil {
		f.State = ports.FieldMalformed
		return nil
	}
	v, err := n.Float64()
	if err != nil {
		f.State = ports.FieldMalformed
		return nil
	}
	f.State, f.Value = ports.FieldSet, v
	return nil
}

type commentField ports.CommentField

func (f *commentField) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, jsonNull) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		f.State = ports.FieldMalformed
		return nil
	}
	f.State, f.Value = ports.FieldSet, s
	return nil
}

type reviewRequest struct {
	Rating  ratingField  `json:"rating"`
	Comment commentField `json:"comment"`
}
