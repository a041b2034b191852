package browse

import "github.com/abelbrown/catalog/internal/product"

// Sentinel identifies the last rendered card: the one whose visibility
// triggers the next page. Two sentinels are the same target only when all
// three fields match.
type Sentinel struct {
	Index      int
	ProductID  int
	Generation uint64
}

// SentinelFor returns the sentinel for the last of products.
func SentinelFor(products []product.Product, gen uint64) (Sentinel, bool) {
	if len(products) == 0 {
		return Sentinel{}, false
	}
	last := len(products) - 1
	return Sentinel{Index: last, ProductID: products[last].ID, Generation: gen}, true
}

// Observer watches one sentinel and reports when it scrolls into view.
//
// It fires on the edge from not visible to visible. Observing a sentinel
// that is already on screen fires on the first Notify. A sentinel that stays
// visible does not fire again until it leaves the viewport and comes back.
type Observer struct {
	target  Sentinel
	armed   bool
	visible bool

	connects int
	fires    int
}

// Observe starts watching s. Re-observing the current target is a no-op;
// a different target replaces the old one.
func (o *Observer) Observe(s Sentinel) {
	if o.armed && o.target == s {
		return
	}
	o.Disconnect()
	o.target = s
	o.armed = true
	o.connects++
}

// Disconnect stops watching.
func (o *Observer) Disconnect() {
	o.target = Sentinel{}
	o.armed = false
	o.visible = false
}

// Target returns the watched sentinel.
func (o *Observer) Target() (Sentinel, bool) {
	return o.target, o.armed
}

// Notify is called with the inclusive index range of visible cards after
// every render. It reports whether the sentinel just became visible.
// Pass last < first when nothing is visible.
func (o *Observer) Notify(first, last int) bool {
	if !o.armed {
		return false
	}
	vis := last >= first && o.target.Index >= first && o.target.Index <= last
	fired := vis && !o.visible
	o.visible = vis
	if fired {
		o.fires++
	}
	return fired
}

// Stats returns how many targets were connected and how many times the
// observer fired.
func (o *Observer) Stats() (connects, fires int) {
	return o.connects, o.fires
}
