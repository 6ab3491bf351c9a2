package model

// IngestError records a single non-fatal per-file failure during ingestion.
type IngestError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// IngestResult summarizes one ingestion run over a project export directory.
type IngestResult struct {
	RunID          string         `json:"run_id"`
	SourceHash     string         `json:"source_hash"`
	MetadataCounts map[string]int `json:"metadata_counts"`
	Errors         []IngestError  `json:"errors"`
	FilesScanned   int            `json:"files_scanned"`
	PatternsFound  int            `json:"patterns_found"`
	NewPatterns    int            `json:"new_patterns"`
	Duplicates     int            `json:"duplicates"`
}
