/*
Package hilite lets users annotate text of HTML documents and renders
annotations as inline highlights.

An App combines the parts found in the sub-packages:

  - package textselector watches the document for text selections
  - package adder offers a button to annotate the selected text
  - package highlight draws annotations into the document
  - package xrange converts between selections and storable ranges

Documents are HTML parse trees, wrapped by package dom, which provides
selections and mouse events the way a browser would.

Status

Early draft—API may change frequently. Please stay patient.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hilite

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite'.
func tracer() tracing.Trace {
	return tracing.Select("hilite")
}
