package arena

// View is a non-owning reference into arena memory. Views stored in
// long-lived structures must reference arena-backed bytes.
type View struct {
	Data   []byte
	Length int
}

// String returns the view's bytes as a string. This copies, as Go
// strings are immutable; callers on a hot path should prefer
// comparing/writing the byte slice directly.
func (v View) String() string {
	if v.Length == 0 {
		return ""
	}
	return string(v.Data[:v.Length])
}

// Equal reports whether two views have the same length and bytes.
func (v View) Equal(other View) bool {
	if v.Length != other.Length {
		return false
	}
	for i := 0; i < v.Length; i++ {
		if v.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// Bytes returns the view's underlying bytes, bounded to Length.
func (v View) Bytes() []byte {
	if v.Length == 0 {
		return nil
	}
	return v.Data[:v.Length]
}

// Empty reports whether the view has zero length.
func (v View) Empty() bool {
	return v.Length == 0
}
