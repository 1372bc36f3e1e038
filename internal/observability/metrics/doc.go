// Package metrics holds the process-wide Prometheus collectors for the HTTP
// layer and the record store. Component-specific collectors (summarizer,
// markdown converter, cleanup worker) live with their components.
//
// Example usage:
//
//	start := time.Now()
//	err := repo.Create(ctx, s)
//	metrics.RecordStoreWrite("summaries", err == nil, time.Since(start))
package metrics
