package platform

import "testing"

func TestFromSpec(t *testing.T) {
	cases := []struct {
		input string
		want  Tag
		ok    bool
	}{
		{"Linux", Linux, true},
		{"linux only", Linux, true},
		{"MacOSX", Darwin, true},
		{"macOS", Darwin, true},
		{"Windows", Windows, true},
		{"WINDOWS 10", Windows, true},
		{"Solaris", "", false},
		{"", "", false},
		// linux wins over a later windows mention, matching the fixed order
		{"Linux and Windows", Linux, true},
	}

	for _, tc := range cases {
		got, ok := FromSpec(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("FromSpec(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParse(t *testing.T) {
	for _, valid := range []string{"linux", "Darwin", " windows "} {
		if _, err := Parse(valid); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := Parse("beos"); err == nil {
		t.Error("Parse(\"beos\") expected error")
	}
}

func TestInstallerFile(t *testing.T) {
	cases := map[Tag]string{
		Linux:   "install.sh",
		Darwin:  "install_macosx.sh",
		Windows: "install_windows.sh",
	}
	for tag, want := range cases {
		if got := tag.InstallerFile(); got != want {
			t.Errorf("%s installer = %q, want %q", tag, got, want)
		}
	}
}

func TestCurrentIsSupported(t *testing.T) {
	tag, err := Current()
	if err != nil {
		t.Skipf("host platform unsupported: %v", err)
	}
	if tag.InstallerFile() == "" {
		t.Errorf("Current() = %q has no installer file", tag)
	}
}
