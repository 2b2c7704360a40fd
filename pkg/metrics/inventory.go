package metrics

import "github.com/prometheus/client_golang/prometheus"

// InventoryMetrics counts purchase-order lifecycle events and exports.
type InventoryMetrics struct {
	created     prometheus.Counter
	received    prometheus.Counter
	receiveNoop prometheus.Counter
	exports     prometheus.Counter
}

// NewInventoryMetrics registers the inventory counters on the provided registerer.
// A nil registerer yields a recorder that drops everything.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	m := &InventoryMetrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "purchase_orders_created_total",
			Help: "Purchase orders created.",
		}),
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "purchase_orders_received_total",
			Help: "Purchase orders moved from Pending to Received.",
		}),
		receiveNoop: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "purchase_orders_receive_noop_total",
			Help: "Receive requests for unknown or already received orders.",
		}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_exports_total",
			Help: "Inventory CSV exports written.",
		}),
	}
	reg.MustRegister(m.created, m.received, m.receiveNoop, m.exports)
	return m
}

func (m *InventoryMetrics) IncCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

func (m *InventoryMetrics) IncReceived() {
	if m == nil || m.received == nil {
		return
	}
	m.received.Inc()
}

func (m *InventoryMetrics) IncReceiveNoop() {
	if m == nil || m.receiveNoop == nil {
		return
	}
	m.receiveNoop.Inc()
}

func (m *InventoryMetrics) IncExport() {
	if m == nil || m.exports == nil {
		return
	}
	m.exports.Inc()
}
