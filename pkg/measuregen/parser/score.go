package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// containerPath is the location of the rootfile index inside an .mxl archive.
const containerPath = "META-INF/container.xml"

// Score holds the part and stave metadata of a partwise MusicXML score.
type Score struct {
	XMLName  xml.Name   `xml:"score-partwise"`
	PartList *partList  `xml:"part-list"`
	Parts    []partData `xml:"part"`
}

type partList struct {
	ScoreParts []scorePart `xml:"score-part"`
}

type scorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type partData struct {
	ID       string        `xml:"id,attr"`
	Measures []measureData `xml:"measure"`
}

type measureData struct {
	Number     string           `xml:"number,attr"`
	Attributes []attributesData `xml:"attributes"`
}

type attributesData struct {
	Staves []string `xml:"staves"`
}

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// ReadScore loads the score metadata from a compressed (.mxl) or plain
// MusicXML file.
func ReadScore(filename string) (*Score, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrConfiguration, err)
	}

	if isZip(data) {
		data, err = extractRootfile(data)
		if err != nil {
			return nil, err
		}
	}

	return ParseScore(data)
}

// ParseScore decodes a plain MusicXML document.
func ParseScore(data []byte) (*Score, error) {
	var score Score
	if err := newDecoder(bytes.NewReader(data)).Decode(&score); err != nil {
		return nil, fmt.Errorf("%w: cannot decode MusicXML: %v", models.ErrConfiguration, err)
	}
	return &score, nil
}

// extractRootfile returns the score document stored in an .mxl archive. The
// rootfile declared by META-INF/container.xml wins; archives without a
// container fall back to the last XML entry.
func extractRootfile(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid mxl archive: %v", models.ErrConfiguration, err)
	}

	name := ""
	if raw, err := readZipFile(r, containerPath); err == nil && raw != nil {
		var c container
		if err := newDecoder(bytes.NewReader(raw)).Decode(&c); err == nil && len(c.Rootfiles) > 0 {
			name = c.Rootfiles[0].FullPath
		}
	}

	if name == "" {
		for _, f := range r.File {
			if strings.HasPrefix(f.Name, "META-INF/") {
				continue
			}
			switch strings.ToLower(path.Ext(f.Name)) {
			case ".xml", ".musicxml":
				name = f.Name
			}
		}
	}
	if name == "" {
		return nil, fmt.Errorf("%w: mxl archive holds no score document", models.ErrConfiguration)
	}

	doc, err := readZipFile(r, name)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrConfiguration, name, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: rootfile %s missing from archive", models.ErrConfiguration, name)
	}
	return doc, nil
}
