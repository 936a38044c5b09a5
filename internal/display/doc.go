// Package display renders user-facing CLI output: validation findings,
// per-file progress while validating, and resolution of the spec files a
// command should look at.
//
// # Findings
//
//	w := display.ValidationWarning("spec.md", findings)
//	w.Display(os.Stdout)
//
// # Progress
//
//	progress := display.NewProgressIndicator(os.Stdout, len(files))
//	progress.Start()
//	for _, file := range files {
//	    progress.Step(file, ok)
//	}
//	progress.Complete()
//
// # Spec files
//
// ResolveSpecFiles expands files, directories (searched for **/*.md) and
// glob patterns into a sorted, de-duplicated file list.
//
// Colors come from fatih/color and are disabled automatically when the
// output is not a terminal or NO_COLOR is set.
package display
