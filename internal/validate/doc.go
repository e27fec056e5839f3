// Package validate checks log files for structural and content problems.
//
// Three formats are supported, chosen by the lower-cased file extension:
//
//   - .csv: header row plus data rows; required columns, duplicate rows and
//     empty required fields are reported.
//   - .json: a single object or an array of objects; empty or absent required
//     fields are reported per entry.
//   - .log, .txt: pipe-delimited lines "timestamp | level | message".
//
// Problems are returned as Diagnostics inside a Result, never as Go errors.
// A Validator holds only its required column set and may be shared by any
// number of goroutines.
package validate
