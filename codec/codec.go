// Package codec is the JSON boundary of the storage core: component values
// crossing the type-erased metadata interface and debug snapshots both pass
// through here, so the whole module serializes through one library.
package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Decode unmarshals bz into a fresh value of type T.
func Decode[T any](bz []byte) (T, error) {
	value := new(T)
	if err := json.Unmarshal(bz, value); err != nil {
		return *value, eris.Wrapf(err, "failed to decode %T", *value)
	}
	return *value, nil
}

// Encode marshals value to JSON.
func Encode(value any) ([]byte, error) {
	bz, err := json.Marshal(value)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to encode %T", value)
	}
	return bz, nil
}
