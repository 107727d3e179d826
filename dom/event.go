package dom

import (
	"sort"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// EventType names a kind of event.
type EventType string

// Mouse events the dispatcher knows of.
const (
	MouseDown EventType = "mousedown"
	MouseUp   EventType = "mouseup"
	Click     EventType = "click"
)

// Button identifies a mouse button, numbered as in W3C MouseEvent.button.
type Button int

// Mouse buttons.
const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// PriorityDefault is the priority of ordinary listeners. Listeners with a
// lower priority value run earlier.
const PriorityDefault = 0

// Point is a position in page coordinates (CSS pixels).
type Point struct {
	X, Y float64
}

// Event is a mouse event travelling from its target up to the document root.
type Event struct {
	Type   EventType
	Target *html.Node
	Button Button
	Page   Point

	currentTarget    *html.Node
	defaultPrevented bool
	stopped          bool
	stoppedNow       bool
}

// NewMouseEvent creates an event of type typ for a target node.
func NewMouseEvent(typ EventType, target *html.Node, button Button, page Point) *Event {
	return &Event{Type: typ, Target: target, Button: button, Page: page}
}

// IsPrimary is true for events of the primary mouse button.
func (ev *Event) IsPrimary() bool {
	return ev.Button == ButtonPrimary
}

// CurrentTarget is the node whose listeners are currently being called.
func (ev *Event) CurrentTarget() *html.Node {
	return ev.currentTarget
}

// PreventDefault signals that the default action of the event should not happen.
func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

// DefaultPrevented reports if a listener called PreventDefault.
func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// StopPropagation prevents delivery to ancestors of the current target.
// The remaining listeners of the current target are still called.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// StopImmediatePropagation prevents delivery to any further listener,
// including listeners of the current target.
func (ev *Event) StopImmediatePropagation() {
	ev.stopped = true
	ev.stoppedNow = true
}

// PropagationStopped reports if a listener stopped the event.
func (ev *Event) PropagationStopped() bool {
	return ev.stopped
}

// Listener is a function receiving events.
type Listener func(*Event)

// Subscription is the handle for a registered listener. It is returned by
// Dispatcher.Listen and is the key for removing the listener again.
type Subscription struct {
	id       uuid.UUID
	node     *html.Node
	typ      EventType
	priority int
	seq      uint64
	fn       Listener
}

// ID returns the unique identity of a subscription.
func (sub *Subscription) ID() uuid.UUID {
	return sub.id
}

// Dispatcher delivers events to listeners registered on nodes of a document.
//
// Dispatcher is not safe for concurrent use; all dispatching and
// (un-)registration happens on the goroutine driving the document.
type Dispatcher struct {
	listeners map[*html.Node][]*Subscription
	seq       uint64
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[*html.Node][]*Subscription)}
}

// Listen registers fn for events of type typ reaching node. Listeners of the
// same node are called in ascending priority, then in order of registration.
func (d *Dispatcher) Listen(node *html.Node, typ EventType, priority int, fn Listener) *Subscription {
	if node == nil || fn == nil {
		return nil
	}
	d.seq++
	sub := &Subscription{
		id:       uuid.New(),
		node:     node,
		typ:      typ,
		priority: priority,
		seq:      d.seq,
		fn:       fn,
	}
	subs := append(d.listeners[node], sub)
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].priority != subs[j].priority {
			return subs[i].priority < subs[j].priority
		}
		return subs[i].seq < subs[j].seq
	})
	d.listeners[node] = subs
	tracer().Debugf("listen %s on %s, priority %d", typ, Describe(node), priority)
	return sub
}

// Unsubscribe removes listeners. Unknown or nil subscriptions are ignored,
// thus unsubscribing twice is harmless.
func (d *Dispatcher) Unsubscribe(subs ...*Subscription) {
	for _, sub := range subs {
		if sub == nil {
			continue
		}
		list := d.listeners[sub.node]
		for i, s := range list {
			if s.id == sub.id {
				list = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(d.listeners, sub.node)
		} else {
			d.listeners[sub.node] = list
		}
	}
}

// ListenerCount returns the number of listeners for typ registered on node.
func (d *Dispatcher) ListenerCount(node *html.Node, typ EventType) int {
	cnt := 0
	for _, s := range d.listeners[node] {
		if s.typ == typ {
			cnt++
		}
	}
	return cnt
}

// Dispatch delivers ev to the listeners of ev.Target and then of its
// ancestors, until a listener stops propagation. It returns false if a
// listener prevented the default action.
func (d *Dispatcher) Dispatch(ev *Event) bool {
	if ev == nil || ev.Target == nil {
		return true
	}
	tracer().Debugf("dispatch %s to %s", ev.Type, Describe(ev.Target))
	for n := ev.Target; n != nil; n = n.Parent {
		ev.currentTarget = n
		for _, sub := range d.snapshot(n, ev.Type) {
			sub.fn(ev)
			if ev.stoppedNow {
				break
			}
		}
		if ev.stopped {
			break
		}
	}
	ev.currentTarget = nil
	return !ev.defaultPrevented
}

// snapshot copies the listener list, as listeners may (un-)subscribe while called.
func (d *Dispatcher) snapshot(n *html.Node, typ EventType) []*Subscription {
	var subs []*Subscription
	for _, s := range d.listeners[n] {
		if s.typ == typ {
			subs = append(subs, s)
		}
	}
	return subs
}
