package model

// FileAction is what the emitter did (or would do) with a discovered file.
type FileAction string

const (
	// FileRewritten means the file was overwritten with the rendered type.
	FileRewritten FileAction = "rewritten"
	// FileDeleted means the file backed a solution-only type and was removed.
	FileDeleted FileAction = "deleted"
	// FileSkipped means no declaration matched the file, so it was left alone.
	FileSkipped FileAction = "skipped"
)

// FileResult is the outcome for one discovered file.
type FileResult struct {
	Path          Path       `yaml:"path"`
	QualifiedName string     `yaml:"qualified_name"`
	Action        FileAction `yaml:"action"`
	Before        []byte     `yaml:"-"`
	After         []byte     `yaml:"-"`
}

// Changed reports whether the file content differs after conversion.
func (r FileResult) Changed() bool {
	if r.Action != FileRewritten {
		return r.Action == FileDeleted
	}

	return string(r.Before) != string(r.After)
}

// Report summarizes one conversion run.
type Report struct {
	Root   Path          `yaml:"root"`
	DryRun bool          `yaml:"dry_run"`
	Plan   RedactionPlan `yaml:"plan"`
	Files  []FileResult  `yaml:"files"`
}

// Count returns how many files ended with the given action.
func (r Report) Count(action FileAction) int {
	count := 0
	for _, file := range r.Files {
		if file.Action == action {
			count++
		}
	}

	return count
}
