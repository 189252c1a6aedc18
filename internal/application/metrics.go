package application

import "storefront-api/internal/ports"

type nopMetrics struct{}

func (nopMetrics) SyncRun(string, string, int, int, int) {}
func (nopMetrics) Notification(string, string, bool)     {}
func (nopMetrics) Payment(string)                        {}
func (nopMetrics) Webhook(string, string, string)        {}

func metricsOrNop(m ports.Metrics) ports.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
