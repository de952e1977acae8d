package manifest

import (
	"testing"
)

// FuzzParseXML tests manifest parsing with various document shapes
func FuzzParseXML(f *testing.F) {
	// Seed with various manifest patterns
	f.Add([]byte(`<PhoronixTestSuite><Downloads><Package><URL>http://a.example/f</URL><FileName>f</FileName></Package></Downloads></PhoronixTestSuite>`))
	f.Add([]byte(`<PhoronixTestSuite><Downloads></Downloads></PhoronixTestSuite>`))
	f.Add([]byte(``))
	f.Add([]byte(`not xml at all`))
	f.Add([]byte(`<PhoronixTestSuite><Downloads><Package>`)) // Truncated document
	f.Add([]byte(`<PhoronixTestSuite><Downloads><Package><URL>,</URL><FileName>f</FileName></Package></Downloads></PhoronixTestSuite>`))
	f.Add([]byte(`<PhoronixTestSuite><Downloads><Package><URL>http://a.example/f</URL><FileName>f</FileName><FileSize>NaN</FileSize></Package></Downloads></PhoronixTestSuite>`))
	f.Add([]byte(`<PhoronixTestSuite><Downloads><Package><URL>http://a.example/f</URL><FileName>f</FileName><MD5>ABCDEF</MD5><SHA256>123456</SHA256><FileSize>10</FileSize></Package></Downloads></PhoronixTestSuite>`))
	f.Add([]byte(`<PhoronixTestSuite><Downloads><Package><URL>http://a.example/f</URL><FileName>f</FileName><PlatformSpecific>Linux, Windows</PlatformSpecific></Package></Downloads></PhoronixTestSuite>`))
	f.Add([]byte(`<?xml version="1.0"?><PhoronixTestSuite><Downloads><Package><URL>http://a.example/f</URL><URL>http://b.example/f</URL><FileName>f</FileName></Package></Downloads></PhoronixTestSuite>`))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Test parseXML - should not crash with any input
		packages := parseXML(data)

		// Every surviving package honors the parser's own contract
		for _, p := range packages {
			if p.FileName == "" {
				t.Error("package with empty file name survived parsing")
			}
			if len(p.Sources) == 0 {
				t.Error("package with no sources survived parsing")
			}
			for _, url := range p.Sources {
				if url == "" {
					t.Error("empty source URL survived parsing")
				}
			}
			switch p.Integrity.Method {
			case MethodMD5, MethodSHA256:
				if p.Integrity.Digest == "" {
					t.Error("hash method with empty digest")
				}
			case MethodSize, MethodNone:
			default:
				t.Errorf("unknown integrity method %q", p.Integrity.Method)
			}
		}
	})
}
