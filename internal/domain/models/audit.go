package models

import "time"

// AuditAction names a recorded change.
type AuditAction string

const (
	AuditAssetCreated     AuditAction = "Asset Created"
	AuditAssetUpdated     AuditAction = "Asset Updated"
	AuditReportExported   AuditAction = "Report Exported"
	AuditSnapshotCaptured AuditAction = "Snapshot Captured"
)

// AuditEntry is one line of the audit log.
type AuditEntry struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	AssetID   string      `json:"assetId,omitempty"`
	AssetName string      `json:"assetName,omitempty"`
	User      string      `json:"user"`
	At        time.Time   `json:"at"`
	Details   string      `json:"details"`
}
