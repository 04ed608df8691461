// Package codec encodes service instances to, and decodes them from, the
// structured interchange formats used to move them between processes.
// YAML is converted through JSON, so both formats share field names and
// optionality rules. Decoding goes through the exported document types so that
// unquoted YAML scalars such as 12345 or true are read as strings where the
// document expects one.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"sigs.k8s.io/yaml"

	"github.com/cloudpilot-ai/svcdiscovery/pkg/apis/discovery/v1alpha1"
)

// Format is an interchange format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// SupportedFormats lists every Format understood by this package
var SupportedFormats = []Format{FormatJSON, FormatYAML}

// ParseFormat returns the Format named by s, ignoring case.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(SupportedFormats, format) {
		return "", fmt.Errorf("unsupported format %q, must be one of %v", s, SupportedFormats)
	}
	return format, nil
}

// EncodeInstances encodes a list of instances.
func EncodeInstances(format Format, instances []v1alpha1.ServiceInstance) ([]byte, error) {
	return encode(format, instances)
}

// DecodeInstances decodes a list of instances.
func DecodeInstances(format Format, data []byte) ([]v1alpha1.ServiceInstance, error) {
	var docs []v1alpha1.ServiceInstanceDocument
	if err := decode(format, data, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		return nil, nil
	}

	instances := make([]v1alpha1.ServiceInstance, 0, len(docs))
	for i := range docs {
		instance, err := docs[i].ToServiceInstance()
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// EncodeInstance encodes a single instance.
func EncodeInstance(format Format, instance v1alpha1.ServiceInstance) ([]byte, error) {
	return encode(format, instance)
}

// DecodeInstance decodes a single instance.
func DecodeInstance(format Format, data []byte) (v1alpha1.ServiceInstance, error) {
	var doc v1alpha1.ServiceInstanceDocument
	if err := decode(format, data, &doc); err != nil {
		return v1alpha1.ServiceInstance{}, err
	}
	return doc.ToServiceInstance()
}

func encode(format Format, v interface{}) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func decode(format Format, data []byte, v interface{}) error {
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to decode json: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to decode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
