// Package app runs a single hydrograph request: it loads a model output
// file through a hydrograph.Session, extracts one location's series and
// writes it as CSV, a PNG plot or a Parquet file. It is decoupled from flag parsing,
// which lives in package cli.
package app
