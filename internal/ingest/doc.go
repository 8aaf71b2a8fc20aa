// Package ingest reads the file formats accepted by the importers: XLSX, CSV, XML and ZIP.
package ingest
