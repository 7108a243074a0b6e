package nal

// Type is the H.264 nal_unit_type.
type Type uint8

const (
	TypeSlice    Type = 1
	TypeSliceIDR Type = 5
	TypeSEI      Type = 6
	TypeSPS      Type = 7
	TypePPS      Type = 8
	TypeAUD      Type = 9
)

// IsVCL reports whether units of this type carry coded picture data.
func (t Type) IsVCL() bool {
	return t >= TypeSlice && t <= TypeSliceIDR
}
