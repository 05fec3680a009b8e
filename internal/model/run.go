package model

// Source describes where a pipeline run pulls its raw records from.
type Source struct {
	Type        string `json:"type"` // sample, json, csv
	URL         string `json:"url,omitempty"`
	RecordCount int    `json:"recordCount,omitempty"` // sample source only
}

// RunSpec configures a single pipeline run.
type RunSpec struct {
	Source              Source `json:"source"`
	ConfirmRegionDelete bool   `json:"confirmRegionDelete"`
	// ConfirmProductDelete defaults to true when omitted. The product
	// aggregate load refuses to run when it is explicitly false.
	ConfirmProductDelete *bool  `json:"confirmProductDelete,omitempty"`
	ExportDir            string `json:"exportDir,omitempty"`
}

// ProductDeleteConfirmed resolves the confirmation flag, applying the
// default of true when the field was omitted.
func (s RunSpec) ProductDeleteConfirmed() bool {
	if s.ConfirmProductDelete == nil {
		return true
	}
	return *s.ConfirmProductDelete
}
