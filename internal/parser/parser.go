package parser

import (
	"bytes"
	"fmt"

	"github.com/awinkler/bgblwatch/internal/xmldec"
)

// SupportedFormats lists body format tags this service can handle, in
// preference order. The feed tags each content URL with one of these.
var SupportedFormats = []string{"xml", "html", "pdf"}

// ParseBody decodes one publication body according to its format tag. XML is
// the canonical source; HTML and PDF are fallbacks for publications that
// never got an XML rendition.
func ParseBody(format string, data []byte) (*xmldec.Node, error) {
	switch format {
	case "xml":
		return xmldec.Decode(data, xmldec.DefaultOptions())
	case "html":
		return ParseHTMLBody(bytes.NewReader(data))
	case "pdf":
		return ParsePDFBody(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported body format: %s", format)
	}
}
