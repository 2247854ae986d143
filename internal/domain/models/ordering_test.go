package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignOrdinals(t *testing.T) {
	tests := []struct {
		name string
		kind EntityKind
		ids  []string
		want []OrdinalAssignment
	}{
		{
			name: "one-based chapters",
			kind: EntityKind{Name: KindChapter, OrdinalBase: 1},
			ids:  []string{"c3", "c1", "c2"},
			want: []OrdinalAssignment{{ID: "c3", Order: 1}, {ID: "c1", Order: 2}, {ID: "c2", Order: 3}},
		},
		{
			name: "zero-based modules",
			kind: EntityKind{Name: KindModule, OrdinalBase: 0},
			ids:  []string{"m2", "m1"},
			want: []OrdinalAssignment{{ID: "m2", Order: 0}, {ID: "m1", Order: 1}},
		},
		{
			name: "single video",
			kind: EntityKind{Name: KindVideo, OrdinalBase: 0},
			ids:  []string{"v1"},
			want: []OrdinalAssignment{{ID: "v1", Order: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssignOrdinals(&tt.kind, tt.ids))
		})
	}
}

func TestOrganizationMembership_IsAdmin(t *testing.T) {
	assert.True(t, OrganizationMembership{Role: RoleOrgAdmin}.IsAdmin())
	assert.False(t, OrganizationMembership{Role: "org:member"}.IsAdmin())
	assert.False(t, OrganizationMembership{Role: "admin"}.IsAdmin())
}
