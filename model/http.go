package model

type CleanSummary struct {
	RequestId         string `json:"request_id"`
	TicksPerQuarter   int    `json:"ticks_per_quarter"`
	NotesIn           int    `json:"notes_in"`
	NotesOut          int    `json:"notes_out"`
	DuplicatesRemoved int    `json:"duplicates_removed"`
	OverlapsTrimmed   int    `json:"overlaps_trimmed"`
	DryRun            bool   `json:"dry_run"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
