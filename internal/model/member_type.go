package model

import "fmt"

// MemberType is a user's role within one organization.
type MemberType string

const (
	MemberTypeCreator  MemberType = "creator"
	MemberTypeAdmin    MemberType = "admin"
	MemberTypeMember   MemberType = "member"
	MemberTypeReadOnly MemberType = "readonly"
)

// AllMemberTypes returns every member type in a stable order.
func AllMemberTypes() []MemberType {
	return []MemberType{MemberTypeCreator, MemberTypeAdmin, MemberTypeMember, MemberTypeReadOnly}
}

// ParseMemberType validates a member type coming from a request boundary.
func ParseMemberType(s string) (MemberType, error) {
	switch MemberType(s) {
	case MemberTypeCreator, MemberTypeAdmin, MemberTypeMember, MemberTypeReadOnly:
		return MemberType(s), nil
	}
	return "", fmt.Errorf("unknown member type %q", s)
}

func (t MemberType) String() string {
	return string(t)
}
