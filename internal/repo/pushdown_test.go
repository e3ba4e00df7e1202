package repo

import (
	"testing"

	"github.com/pkgcraft/go-pkgcraft/internal/atom"
	"github.com/pkgcraft/go-pkgcraft/internal/restrict"
	"github.com/pkgcraft/go-pkgcraft/internal/version"
)

func TestCpnOnlyClassification(t *testing.T) {
	cases := []struct {
		name string
		r    restrict.Restrict
		want bool
	}{
		{"true", restrict.True(), true},
		{"false", restrict.False(), true},
		{"category-equal", restrict.Equal(restrict.FieldCategory, "app-misc"), true},
		{"package-equal", restrict.Equal(restrict.FieldPackage, "foo"), true},
		{"slot-equal", restrict.Equal(restrict.FieldSlot, "0"), false},
		{"and-of-cpn", restrict.And(restrict.Equal(restrict.FieldCategory, "app-misc"), restrict.Equal(restrict.FieldPackage, "foo")), true},
		{"and-with-slot", restrict.And(restrict.Equal(restrict.FieldCategory, "app-misc"), restrict.Equal(restrict.FieldSlot, "0")), false},
		{"not-of-cpn", restrict.Not(restrict.Equal(restrict.FieldCategory, "app-misc")), true},
		{"iuse-contains", restrict.Contains(restrict.FieldIUSE, "ssl"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := cpnOnly(c.r); got != c.want {
				t.Fatalf("cpnOnly(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestCpvDecidableClassification(t *testing.T) {
	v, err := version.Parse("1.0")
	if err != nil {
		t.Fatalf("version.Parse: %v", err)
	}
	cases := []struct {
		name string
		r    restrict.Restrict
		want bool
	}{
		{"version", restrict.VersionConstraint(v), true},
		{"no-version", restrict.NoVersion(), true},
		{"category", restrict.Equal(restrict.FieldCategory, "app-misc"), true},
		{"and-cpn-and-version", restrict.And(restrict.Equal(restrict.FieldCategory, "app-misc"), restrict.VersionConstraint(v)), true},
		{"iuse", restrict.Contains(restrict.FieldIUSE, "ssl"), false},
		{"and-with-iuse", restrict.And(restrict.VersionConstraint(v), restrict.Contains(restrict.FieldIUSE, "ssl")), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := cpvDecidable(c.r); got != c.want {
				t.Fatalf("cpvDecidable(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestMatchesCpnAndCpv(t *testing.T) {
	cpn := atom.Cpn{Category: "app-misc", Package: "foo"}
	if !matchesCpn(restrict.Equal(restrict.FieldCategory, "app-misc"), cpn) {
		t.Fatal("expected category match")
	}
	if matchesCpn(restrict.Equal(restrict.FieldCategory, "dev-libs"), cpn) {
		t.Fatal("expected category mismatch")
	}

	v, err := version.Parse("1.0")
	if err != nil {
		t.Fatalf("version.Parse: %v", err)
	}
	cpv := atom.Cpv{Cpn: cpn, Version: v}
	if !matchesCpv(restrict.VersionConstraint(v), cpv) {
		t.Fatal("expected version match")
	}
}
