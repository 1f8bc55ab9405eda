// Package wire holds the byte sink and byte source used by code generated by
// binstruct, together with the runtime errors that generated code reports.
//
// Generated types get four methods:
//
//	func (p *Frame) EncodeBinary(e *wire.Encoder) error
//	func (p *Frame) MarshalBinary() ([]byte, error)
//	func (p *Frame) DecodeBinary(d *wire.Decoder) error
//	func (p *Frame) UnmarshalBinary(b []byte) error
//
// Runtime failures are reported through errors.Is against the sentinels in
// this package (ErrTruncated, ErrUnknownVariant, ...). Generated code wraps
// every failure in a *FieldError naming the structure and field.
package wire
