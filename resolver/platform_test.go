package resolver

import "testing"

func TestPlatformSpecMatches(t *testing.T) {
	unixy := DefaultTags()
	windows := NewTagSet("win32")

	cases := []struct {
		spec PlatformSpec
		tags TagSet
		want bool
	}{
		{nil, unixy, true},
		{PlatformSpec{}, unixy, true},
		{PlatformSpec{"unix"}, unixy, true},
		{PlatformSpec{"win32"}, unixy, false},
		{PlatformSpec{"win32", "linux"}, unixy, true},
		{PlatformSpec{"!win32"}, unixy, true},
		{PlatformSpec{"!unix"}, unixy, false},
		{PlatformSpec{"!unix"}, windows, true},
		{PlatformSpec{"bsd", "!linux"}, unixy, false},
		{PlatformSpec{"bsd", "!linux"}, NewTagSet("unix", "bsd"), true},
		{PlatformSpec{"!bsd", "!darwin"}, unixy, true},
	}

	for _, c := range cases {
		if got := c.spec.Matches(c.tags); got != c.want {
			t.Errorf("PlatformSpec(%v).Matches(%s) = %v, wanted %v", c.spec, c.tags, got, c.want)
		}
	}
}

func TestTagSetString(t *testing.T) {
	if got := NewTagSet("linux", "unix").String(); got != "linux,unix" {
		t.Errorf("String() = %q, wanted sorted linux,unix", got)
	}
}
