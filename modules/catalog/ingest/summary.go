package ingest

// RunSummary aggregates the counts of one ingestion run. It is always
// returned to the caller, even when parts of the run failed; only a fatal
// entity-stage failure yields an error instead.
type RunSummary struct {
	TotalRows            int   `json:"total_rows"`
	ProcessedRows        int   `json:"processed_rows"`
	InstitutionsSeen     int   `json:"institutions_seen"`
	ProgramsSeen         int   `json:"programs_seen"`
	SubjectsSeen         int   `json:"subjects_seen"`
	AssociationsInserted int64 `json:"associations_inserted"`
	SkippedRows          int   `json:"skipped_rows"`
	SkippedSubjects      int   `json:"skipped_subjects"`
	Errors               int   `json:"errors"`

	SkippedRowDetails     []SkippedRow     `json:"skipped_row_details,omitempty"`
	SkippedSubjectDetails []SkippedSubject `json:"skipped_subject_details,omitempty"`
}
