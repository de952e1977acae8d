// Package manifest reads download manifests (downloads.xml) into typed
// artifact records. A manifest names every file a benchmark needs, the
// candidate URLs to fetch it from, and how to verify the result:
//
//	<PhoronixTestSuite>
//	  <Downloads>
//	    <Package>
//	      <URL>http://a.example/f.tar.xz,http://b.example/f.tar.xz</URL>
//	      <MD5>54202a002878e4d0877e6e84c54202a0</MD5>
//	      <FileName>f.tar.xz</FileName>
//	      <FileSize>452155436</FileSize>
//	      <PlatformSpecific>Linux</PlatformSpecific>
//	    </Package>
//	  </Downloads>
//	</PhoronixTestSuite>
package manifest

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/open-benchmark-platform/bench-composer/internal/platform"
	"github.com/open-benchmark-platform/bench-composer/internal/utils/logger"
)

// Package is one artifact to acquire: a target file name, the ordered
// candidate sources, and the verification descriptor picked at parse time.
type Package struct {
	FileName string
	// Platform is empty for platform-agnostic artifacts.
	Platform  platform.Tag
	Sources   []string
	Integrity Integrity
}

// String renders the package the way acquisition logs print it.
func (p Package) String() string {
	plat := "any"
	if p.Platform != "" {
		plat = string(p.Platform)
	}
	return fmt.Sprintf("%s (platform=%s, %s)", p.FileName, plat, p.Integrity)
}

type downloadsFile struct {
	Packages []packageEntry `xml:"Downloads>Package"`
}

type packageEntry struct {
	URLs             []string `xml:"URL"`
	FileName         string   `xml:"FileName"`
	MD5              string   `xml:"MD5"`
	SHA256           string   `xml:"SHA256"`
	FileSize         string   `xml:"FileSize"`
	PlatformSpecific string   `xml:"PlatformSpecific"`
}

// ParseFile reads the manifest at path. An absent or malformed manifest
// yields an empty list, never an error: acquisition then has nothing to
// fetch, which callers must not read as confirmation that files exist.
func ParseFile(path string) []Package {
	log := logger.Logger()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("cannot read manifest %s: %v", path, err)
		}
		return nil
	}
	return parseXML(data)
}

// parseXML decodes the manifest body. Entries without a file name or
// without any usable source URL are dropped individually; a document that
// does not decode at all, or carries an unparsable FileSize, empties the
// whole manifest.
func parseXML(data []byte) []Package {
	log := logger.Logger()

	var doc downloadsFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		log.Warnf("malformed download manifest, ignoring it: %v", err)
		return nil
	}

	packages := make([]Package, 0, len(doc.Packages))
	for _, entry := range doc.Packages {
		fileName := strings.TrimSpace(entry.FileName)
		if fileName == "" {
			log.Warnf("dropping manifest entry with no file name (urls: %s)", strings.Join(entry.URLs, ","))
			continue
		}

		sources := splitSources(entry.URLs)
		if len(sources) == 0 {
			log.Warnf("dropping %s: no download sources declared", fileName)
			continue
		}

		integrity, err := pickIntegrity(entry)
		if err != nil {
			log.Warnf("malformed download manifest, ignoring it: %v", err)
			return nil
		}

		tag, _ := platform.FromSpec(entry.PlatformSpecific)
		packages = append(packages, Package{
			FileName:  fileName,
			Platform:  tag,
			Sources:   sources,
			Integrity: integrity,
		})
	}
	return packages
}

// splitSources flattens the URL fields, splitting comma-joined lists and
// discarding empty pieces.
func splitSources(urls []string) []string {
	var sources []string
	for _, raw := range urls {
		for _, url := range strings.Split(raw, ",") {
			if url = strings.TrimSpace(url); url != "" {
				sources = append(sources, url)
			}
		}
	}
	return sources
}

// pickIntegrity resolves the declared verification fields into the single
// descriptor used downstream, with precedence md5 > sha256 > size. Digests
// are normalized to lowercase here so later comparison is plain string
// equality.
func pickIntegrity(entry packageEntry) (Integrity, error) {
	if digest := strings.TrimSpace(entry.MD5); digest != "" {
		return Integrity{Method: MethodMD5, Digest: strings.ToLower(digest)}, nil
	}
	if digest := strings.TrimSpace(entry.SHA256); digest != "" {
		return Integrity{Method: MethodSHA256, Digest: strings.ToLower(digest)}, nil
	}
	if raw := strings.TrimSpace(entry.FileSize); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Integrity{}, fmt.Errorf("bad FileSize %q for %s: %w", raw, entry.FileName, err)
		}
		return Integrity{Method: MethodSize, Size: size}, nil
	}
	return Integrity{Method: MethodNone}, nil
}
