package project

import "testing"

func TestTeamSizeAllowsPositionCount(t *testing.T) {
	cases := []struct {
		size  TeamSize
		count int
		want  bool
	}{
		{TeamSizeSmall, 0, false},
		{TeamSizeSmall, 1, true},
		{TeamSizeSmall, 3, true},
		{TeamSizeSmall, 4, false},
		{TeamSizeMedium, 3, false},
		{TeamSizeMedium, 4, true},
		{TeamSizeMedium, 6, true},
		{TeamSizeMedium, 7, false},
		{TeamSizeLarge, 6, false},
		{TeamSizeLarge, 7, true},
		{TeamSizeLarge, 1000, true},
		{TeamSize("2-5"), 3, false},
	}
	for _, tc := range cases {
		if got := tc.size.Allows(tc.count); got != tc.want {
			t.Fatalf("%s.Allows(%d) = %v, want %v", tc.size, tc.count, got, tc.want)
		}
	}
}

func TestParseEnumsCaseInsensitive(t *testing.T) {
	if size, ok := ParseTeamSize(" 4-6 "); !ok || size != TeamSizeMedium {
		t.Fatalf("unexpected team size %q", size)
	}
	if typ, ok := ParseType("hackathon"); !ok || typ != TypeHackathon {
		t.Fatalf("unexpected type %q", typ)
	}
	if c, ok := ParseCommitmentType("PART-TIME"); !ok || c != CommitmentPartTime {
		t.Fatalf("unexpected commitment %q", c)
	}
	if _, ok := ParseType("startup"); ok {
		t.Fatalf("unknown project type must not parse")
	}
}
