/*
Package highlight draws annotations as inline highlights into a document.

Highlights are created by wrapping each non-whitespace text node of an
annotation's ranges into a marker element:

    <span class="annotator-hl" data-annotation-id="42">…</span>

Removing a highlight dissolves the marker again, re-inserting the wrapped
text node at its former position. Drawing and undrawing an annotation
therefore leaves the text content of the document unchanged.

Whitespace-only text nodes are never wrapped. Containers like table rows or
lists restrict the kinds of children they may have, and wrapping the
whitespace between their children would break them.

Batches

DrawAll draws a possibly large number of annotations in chunks. After each
chunk it hands control back to the event loop (see package eventloop) and
continues after a short delay. The result is delivered through a Promise.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package highlight

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.highlight'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.highlight")
}
