// Package codec turns state values into bytes and back. Stores only ever see
// the encoded form.
package codec

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// Gob encodes values with encoding/gob, so T should expose its fields.
type Gob[T any] struct{}

func (Gob[T]) Encode(v T) ([]byte, error) {
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(&v); err != nil {
		return nil, errors.WithMessage(err, "failed to gob encode state")
	}
	return buffer.Bytes(), nil
}

func (Gob[T]) Decode(data []byte) (T, error) {
	vPointer := new(T)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(vPointer); err != nil {
		return *vPointer, errors.WithMessage(err, "failed to gob decode state")
	}
	return *vPointer, nil
}

// Proto encodes protobuf messages. New must return an empty message to decode into.
type Proto[T proto.Message] struct {
	New func() T
}

func (p Proto[T]) Encode(v T) ([]byte, error) {
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(v)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to marshal state")
	}
	return data, nil
}

func (p Proto[T]) Decode(data []byte) (T, error) {
	v := p.New()
	if err := proto.Unmarshal(data, v); err != nil {
		return v, errors.WithMessage(err, "failed to unmarshal state")
	}
	return v, nil
}

// Raw passes bytes through untouched.
type Raw struct{}

func (Raw) Encode(v []byte) ([]byte, error) { return v, nil }

func (Raw) Decode(data []byte) ([]byte, error) { return data, nil }
