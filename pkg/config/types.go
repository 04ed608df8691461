// Package config provides configuration types and constants for instancectl.
// It defines the command's configuration structure and the defaults used when
// reading and writing service instance documents.
package config

import "github.com/cloudpilot-ai/svcdiscovery/pkg/codec"

// Config holds the instancectl runtime configuration
type Config struct {
	// Files are the instance documents to read, "-" for stdin. Each file is a
	// separate aggregation source and instances are returned in file order.
	Files []string
	// InputFormat is the format of the instance document
	InputFormat codec.Format
	// OutputFormat is the format instances are written in
	OutputFormat codec.Format
	// Validate indicates whether every instance is validated before it is written
	Validate bool
}

const (
	// StdinFile is the Files entry that reads a document from stdin
	StdinFile = "-"
	// DefaultInputFormat is the default format of instance documents
	DefaultInputFormat = codec.FormatYAML
	// DefaultOutputFormat is the default format instances are written in
	DefaultOutputFormat = codec.FormatJSON
)
