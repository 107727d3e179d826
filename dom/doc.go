/*
Package dom provides the document model the highlighter and the selection
monitor operate on.

Status

Early draft—API may change frequently. Please stay patient.

Overview

Documents are HTML parse trees from golang.org/x/net/html. Package dom adds
what a browser would otherwise provide on top of the bare tree: an owning
Document for every attached node, a live Selection made of Ranges,
and an event Dispatcher delivering mouse events from a target node up to the
document root.

Tree Manipulation

Highlighting is done by wrapping text nodes into marker elements and later
dissolving these markers again. The helpers Wrap and ReplaceWithChildren are
exact inverses of each other with respect to the text nodes involved:
no text node is copied, every node keeps its identity and relative order.

SplitText divides a text node in two, like the W3C operation of the same name.
Offsets into text nodes are counted in runes throughout this module.

Events

Listeners are registered per node and return a Subscription handle, which is
the only means to remove them again. Delivery bubbles from the event's target
up to the root. Listeners of a single node run in ascending priority, ties
broken by registration order, which allows components to rely on running
before others on the same node.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'hilite.dom'
func tracer() tracing.Trace {
	return tracing.Select("hilite.dom")
}
