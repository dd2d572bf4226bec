package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
)

func TestAuthorize(t *testing.T) {
	policy := NewPolicy()

	cases := []struct {
		name string
		role domain.Role
		op   domain.Operation
		want dErrors.Code // empty means allowed
	}{
		{"user can query", domain.RoleUser, domain.OpQuery, ""},
		{"user can retrieve", domain.RoleUser, domain.OpRetrieve, ""},
		{"user cannot store", domain.RoleUser, domain.OpStore, dErrors.CodeForbidden},
		{"user cannot administer", domain.RoleUser, domain.OpAdmin, dErrors.CodeForbidden},
		{"admin can query", domain.RoleAdmin, domain.OpQuery, ""},
		{"admin can retrieve", domain.RoleAdmin, domain.OpRetrieve, ""},
		{"admin can store", domain.RoleAdmin, domain.OpStore, ""},
		{"admin can administer", domain.RoleAdmin, domain.OpAdmin, ""},
		{"unknown role denied", domain.Role("guest"), domain.OpQuery, dErrors.CodeForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Authorize(domain.Principal{Subject: "someone", Role: tc.role}, tc.op)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.Is(err, tc.want), "expected %s, got %v", tc.want, err)
		})
	}
}

func TestAuthorizeMissingPrincipal(t *testing.T) {
	policy := NewPolicy()
	err := policy.Authorize(domain.Principal{}, domain.OpQuery)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
