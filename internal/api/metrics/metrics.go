// Package metrics defines and registers all custom Prometheus metrics for
// the KirimAja shipment system. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kirimaja"

// ShipmentsCreatedTotal counts newly created shipments.
// Label:
//   - delivery_type: "same_day", "next_day", or "reguler"
var ShipmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_created_total",
		Help:      "Total number of shipments created, by delivery type.",
	},
	[]string{"delivery_type"},
)

// WebhooksProcessedTotal counts payment webhook deliveries by outcome.
// Labels:
//   - status: the payment status reported by the gateway
//   - result: "ok", "duplicate", or "error"
var WebhooksProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_webhooks_processed_total",
		Help:      "Total number of payment webhook deliveries, by status and result.",
	},
	[]string{"status", "result"},
)

// ExpiryJobsScheduledTotal counts payment-expiry jobs placed on the queue.
var ExpiryJobsScheduledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expiry_jobs_scheduled_total",
		Help:      "Total number of payment expiry jobs scheduled.",
	},
)

// ExpiryJobsProcessedTotal counts executed expiry jobs by result. A job that
// found the payment already reconciled still counts as "ok" (silent no-op).
var ExpiryJobsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expiry_jobs_processed_total",
		Help:      "Total number of payment expiry jobs executed, by result.",
	},
	[]string{"result"},
)

// EmailJobsProcessedTotal counts email jobs by type and result.
var EmailJobsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_jobs_processed_total",
		Help:      "Total number of email jobs executed, by type and result.",
	},
	[]string{"type", "result"},
)

// QueueDepth tracks the number of pending jobs per delay queue.
var QueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of pending jobs in each delay queue.",
	},
	[]string{"queue"},
)

// BranchScansTotal counts branch scans by direction and result.
var BranchScansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "branch_scans_total",
		Help:      "Total number of branch scans, by scan type and result.",
	},
	[]string{"type", "result"},
)
