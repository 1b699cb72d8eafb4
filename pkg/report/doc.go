// Package report renders validation reports and probe results as JSON,
// YAML or an aligned plain-text table.
//
//	w := report.NewWriter(report.FormatText, os.Stdout)
//	if err := w.Write(rep); err != nil {
//		return err
//	}
package report
