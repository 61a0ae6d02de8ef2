package core

import "testing"

func TestSplitMarker(t *testing.T) {
	markers := []string{"#"}
	tests := []struct {
		line   string
		indent string
		marker string
		text   string
		ok     bool
	}{
		{"# plain", "", "#", " plain", true},
		{"    # indented", "    ", "#", " indented", true},
		{"\t## doubled", "\t", "#", "# doubled", true},
		{"# trailing ws  ", "", "#", " trailing ws  ", true},
		{"x = 1  # not pure", "", "", "", false},
		{"", "", "", "", false},
	}
	for _, tt := range tests {
		indent, marker, text, ok := SplitMarker(tt.line, markers)
		if ok != tt.ok || indent != tt.indent || marker != tt.marker || text != tt.text {
			t.Errorf("SplitMarker(%q) = (%q,%q,%q,%v), want (%q,%q,%q,%v)",
				tt.line, indent, marker, text, ok, tt.indent, tt.marker, tt.text, tt.ok)
		}
		if ok && indent+marker+text != tt.line {
			t.Errorf("SplitMarker(%q) does not reassemble", tt.line)
		}
	}
}

func TestFindInlineMarker(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		markers []string
		want    int
	}{
		{"simple", `x = 1 // note`, []string{"//"}, 6},
		{"hash", `total = n  # running`, []string{"#"}, 11},
		{"double quoted", `s = "a // b" // real`, []string{"//"}, 13},
		{"single quoted", `s = 'a # b' # real`, []string{"#"}, 12},
		{"backtick quoted", "s = `a // b` // real", []string{"//"}, 13},
		{"escaped quote", `s = "a \" // b"`, []string{"//"}, -1},
		{"url is glued", `fetch("https://example.com")`, []string{"//"}, -1},
		{"glued hash", `color = x#y`, []string{"#"}, -1},
		{"needs whitespace before", `x=1//note`, []string{"//"}, -1},
		{"tab counts as whitespace", "x = 1\t// note", []string{"//"}, 6},
		{"marker at start is not inline", `// pure`, []string{"//"}, -1},
		{"double dash", `SELECT 1 -- id`, []string{"--"}, 9},
		{"partial marker", `a - b -- c`, []string{"--"}, 6},
		{"unterminated string hides marker", `s = "abc // def`, []string{"//"}, -1},
		{"second marker wins", `s = "x" + y # real`, []string{"#"}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindInlineMarker(tt.line, tt.markers); got != tt.want {
				t.Errorf("FindInlineMarker(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsCommentLine(t *testing.T) {
	markers := []string{"//", "#"}
	if !IsCommentLine("  // x", markers) {
		t.Error("indented // line should be a comment")
	}
	if !IsCommentLine("# x", markers) {
		t.Error("# line should be a comment")
	}
	if IsCommentLine("x // y", markers) {
		t.Error("code with inline comment is not a pure comment line")
	}
}
