package resolver_test

import (
	"testing"

	"github.com/aretw0/scout/pkg/resolver"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"alias exact", "RTL Nederland", "rtl-nederland"},
		{"alias substring", "KBC Bank & Verzekering", "kbc-group"},
		{"longer alias first", "BNP Paribas Fortis SA", "bnp-paribas-fortis"},
		{"slug fallback strips non-ascii", "Some Rändom Co!!", "some-rndom-co"},
		{"slug collapses whitespace", "  Acme   Widgets  ", "acme-widgets"},
		{"slug collapses hyphens", "Foo - - Bar", "foo-bar"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.in))
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world_2", resolver.Slugify("Hello, World_2!"))
	assert.Equal(t, "a-b", resolver.Slugify("-a--b-"))
}
