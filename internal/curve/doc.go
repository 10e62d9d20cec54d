// Package curve extracts learning curves from Caffe solver logs and exports
// them as charts (PDF, PNG, HTML) and a space-separated table.
package curve
