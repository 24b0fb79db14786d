package lldp

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap/zapcore"
)

// Port Description, System Name and System Description all carry 0-255
// bytes of UTF-8 text and nothing else.

func validateText(t Type, s string) error {
	if len(s) > maxStringLen {
		return fmt.Errorf("%w: %v must be at most %d bytes, got %d", ErrValueConstraint, t, maxStringLen, len(s))
	}

	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %v is not valid UTF-8", ErrMalformedTLV, t)
	}

	return nil
}

func decodeText(b []byte, t Type) (string, error) {
	v, err := decodeHeader(b, t)
	if err != nil {
		return "", err
	}

	s := string(v)
	if err := validateText(t, s); err != nil {
		return "", malformed(err)
	}

	return s, nil
}

func encodeText(t Type, s string) []byte {
	b := newTLVBuffer(t, len(s))
	copy(b[headerLen:], s)

	return b
}

type PortDescription struct {
	description string
}

var _ TLV = &PortDescription{}

func NewPortDescription(description string) (*PortDescription, error) {
	if err := validateText(TypePortDescription, description); err != nil {
		return nil, err
	}

	return &PortDescription{description: description}, nil
}

func DecodePortDescription(b []byte) (*PortDescription, error) {
	s, err := decodeText(b, TypePortDescription)
	if err != nil {
		return nil, err
	}

	return &PortDescription{description: s}, nil
}

func (d *PortDescription) Type() Type {
	return TypePortDescription
}

func (d *PortDescription) Description() string {
	return d.description
}

func (d *PortDescription) Len() int {
	return len(d.description)
}

func (d *PortDescription) Encode() []byte {
	return encodeText(TypePortDescription, d.description)
}

func (d *PortDescription) String() string {
	return fmt.Sprintf("PortDescription(%q)", d.description)
}

func (d *PortDescription) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypePortDescription.String())
	enc.AddString("description", d.description)
	return nil
}

type SystemName struct {
	name string
}

var _ TLV = &SystemName{}

func NewSystemName(name string) (*SystemName, error) {
	if err := validateText(TypeSystemName, name); err != nil {
		return nil, err
	}

	return &SystemName{name: name}, nil
}

func DecodeSystemName(b []byte) (*SystemName, error) {
	s, err := decodeText(b, TypeSystemName)
	if err != nil {
		return nil, err
	}

	return &SystemName{name: s}, nil
}

func (n *SystemName) Type() Type {
	return TypeSystemName
}

func (n *SystemName) Name() string {
	return n.name
}

func (n *SystemName) Len() int {
	return len(n.name)
}

func (n *SystemName) Encode() []byte {
	return encodeText(TypeSystemName, n.name)
}

func (n *SystemName) String() string {
	return fmt.Sprintf("SystemName(%q)", n.name)
}

func (n *SystemName) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeSystemName.String())
	enc.AddString("name", n.name)
	return nil
}

type SystemDescription struct {
	description string
}

var _ TLV = &SystemDescription{}

func NewSystemDescription(description string) (*SystemDescription, error) {
	if err := validateText(TypeSystemDescription, description); err != nil {
		return nil, err
	}

	return &SystemDescription{description: description}, nil
}

func DecodeSystemDescription(b []byte) (*SystemDescription, error) {
	s, err := decodeText(b, TypeSystemDescription)
	if err != nil {
		return nil, err
	}

	return &SystemDescription{description: s}, nil
}

func (d *SystemDescription) Type() Type {
	return TypeSystemDescription
}

func (d *SystemDescription) Description() string {
	return d.description
}

func (d *SystemDescription) Len() int {
	return len(d.description)
}

func (d *SystemDescription) Encode() []byte {
	return encodeText(TypeSystemDescription, d.description)
}

func (d *SystemDescription) String() string {
	return fmt.Sprintf("SystemDescription(%q)", d.description)
}

func (d *SystemDescription) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeSystemDescription.String())
	enc.AddString("description", d.description)
	return nil
}
