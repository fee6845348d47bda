package model

// ServiceStats is a point-in-time view of the service for /stats.
// Dataset and pool fields are zero until the service has started.
type ServiceStats struct {
	Started       bool   `json:"started"`
	WorkerCount   int    `json:"workerCount"`
	QueueSize     int    `json:"queueSize"`
	Embedder      string `json:"embedder"`
	Sink          string `json:"sink,omitempty"`
	Records       int    `json:"records"`
	DatasetSource string `json:"datasetSource,omitempty"`
	QueueLength   int    `json:"queueLength"`
	ActiveWorkers int    `json:"activeWorkers"`
	ProcessedJobs int64  `json:"processedJobs"`
}
