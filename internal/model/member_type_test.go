package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMemberType(t *testing.T) {
	for _, mt := range AllMemberTypes() {
		parsed, err := ParseMemberType(string(mt))
		assert.NoError(t, err)
		assert.Equal(t, mt, parsed)
	}

	for _, s := range []string{"", "Creator", "superuser", "ADMIN"} {
		_, err := ParseMemberType(s)
		assert.Error(t, err, "input %q", s)
	}
}
