/*
Package xrange converts between the different representations of a text range.

Overview

A range of document text comes in three flavours:

   - Browser:    a raw range, as made by a user selecting text. Its boundary
                 points may sit anywhere, inside text nodes or between elements.
   - Normalized: a range starting at the beginning of a text node and ending
                 at the end of a text node. It knows the text nodes it spans.
   - Serialized: a storable description of a range, made of element paths
                 relative to a root element plus character offsets.

Every flavour resolves to a Normalized range by calling Normalize(root).
Normalizing a Browser range splits the text nodes at its boundary points.
This changes the structure of the DOM, but never its text.

Sniff turns an opaque stored value back into something resolvable.
Failing to resolve a range against the current DOM is reported as a
*RangeError, which is distinguishable from all other errors by IsRangeError.

Paths

Serialized paths look like "/div[1]/p[3]". Each step names an element and
its position among siblings of the same tag, counting from one. Elements
carrying the ignore class (usually the highlight class) are skipped when
counting, as are their boundaries when counting character offsets. Thus a
serialized range stays valid while highlights come and go.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package xrange

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'hilite.xrange'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.xrange")
}

// DefaultIgnoreClass is the class of elements which are transparent for
// serialized paths and offsets, unless told otherwise.
const DefaultIgnoreClass = "annotator-hl"
