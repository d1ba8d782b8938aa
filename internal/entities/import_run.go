package entities

import "time"

type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportRun records the outcome of one bulk import.
// Rows is the number reported back to the caller; the remaining counters
// break down how the rows fared.
type ImportRun struct {
	ID             string       `gorm:"primaryKey;size:36" json:"id"`
	UserID         uint         `gorm:"index" json:"user_id"`
	Filename       string       `gorm:"size:255" json:"filename"`
	Status         ImportStatus `gorm:"size:20;default:'running'" json:"status"`
	Rows           int          `json:"rows"`
	RecordsCreated int          `json:"records_created"`
	RecordsFailed  int          `json:"records_failed"`
	MalformedLines int          `json:"malformed_lines"`
	ImagesAttached int          `json:"images_attached"`
	ImagesFailed   int          `json:"images_failed"`
	MetaFailed     int          `json:"meta_failed"`
	TermFailed     int          `json:"term_failed"`
	Error          string       `gorm:"size:500" json:"error,omitempty"`
	ArchiveFile    string       `gorm:"size:255" json:"archive_file,omitempty"`
	StartedAt      time.Time    `gorm:"index" json:"started_at"`
	FinishedAt     *time.Time   `json:"finished_at,omitempty"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}
