package dto

// UploadPreview is the pre-commit view of an uploaded file: the first rows
// plus the heuristically detected column mapping, which the caller may edit
// and send back as overrides.
type UploadPreview struct {
	Filename        string            `json:"filename"`
	Headers         []string          `json:"headers"`
	Rows            [][]string        `json:"rows"`
	TotalRows       int               `json:"total_rows"`
	DetectedMapping map[string]string `json:"detected_mapping"`
	OrgColumn       string            `json:"org_column,omitempty"`
}
