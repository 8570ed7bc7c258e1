package model

// APIString is a type used to ensure that string fields in REST
// payloads marshal consistently whether or not they are set.
type APIString *string

// ToAPIString returns an APIString from a string.
func ToAPIString(in string) APIString {
	return APIString(&in)
}

// FromAPIString returns a string from an APIString, treating a nil
// pointer as the empty string.
func FromAPIString(in APIString) string {
	if in == nil {
		return ""
	}

	return *in
}
