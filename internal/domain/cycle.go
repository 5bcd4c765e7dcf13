package domain

import "time"

// CycleStats holds statistics about one polling cycle.
type CycleStats struct {
	Targets          int
	FetchFailures    int
	Parsed           int
	Malformed        int
	Stale            int
	Suppressed       int
	SuppressedBy     map[string]int
	Delivered        int
	DeliveryFailures int
	PersistFailures  int
	Duration         time.Duration
}

// Delivery is what gets sent to Discord for one accepted ad.
type Delivery struct {
	Ad         *TradeAd
	Target     TrackingTarget
	Screenshot []byte
}

type DeliveryEvent struct {
	Action      string    `json:"action"`
	Fingerprint string    `json:"fingerprint"`
	Target      TargetKey `json:"target"`
	Poster      string    `json:"poster"`
	PostedAt    time.Time `json:"posted_at"`
	Timestamp   time.Time `json:"timestamp"`
}
