// Package v1alpha1 contains the data model shared by discovery backends and their
// callers: a ServiceInstance describes one discovered network endpoint and the
// Ports it exposes.
//
// Values are immutable once constructed. Backends build them with NewPort and
// NewServiceInstance while translating backend-native records, and callers only
// read them through accessors. Optional fields are pointers (or nil slices) so
// that "absent" is never confused with "present but empty".
package v1alpha1

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/samber/lo"
)

// Port is a network port exposed by a ServiceInstance
type Port struct {
	name        *string
	port        uint32
	protocol    string
	appProtocol *string
}

// NewPort creates a Port. No validation is performed; see ValidatePort.
func NewPort(name *string, port uint32, protocol string, appProtocol *string) Port {
	return Port{
		name:        copyString(name),
		port:        port,
		protocol:    protocol,
		appProtocol: copyString(appProtocol),
	}
}

// Name is the optional port name, unique only by convention within an instance.
func (p Port) Name() *string {
	return copyString(p.name)
}

// Port is the port number. Range checks are left to the caller.
func (p Port) Port() uint32 {
	return p.port
}

// Protocol is the transport protocol, e.g. TCP.
func (p Port) Protocol() string {
	return p.protocol
}

// AppProtocol is an optional application-layer protocol hint.
func (p Port) AppProtocol() *string {
	return copyString(p.appProtocol)
}

func (p Port) String() string {
	return fmt.Sprintf("Port{name: %s, port: %d, protocol: %q, appProtocol: %s}",
		formatString(p.name), p.port, p.protocol, formatString(p.appProtocol))
}

// ServiceInstance represents one running, network-addressable copy of a service
// as reported by a discovery backend.
type ServiceInstance struct {
	instanceID *string
	serviceID  *string
	host       *string
	// nil means the backend did not report ports
	ports []Port
	// secure reports whether the default port uses TLS; which port is the
	// default is up to the backend
	secure   bool
	uri      *string
	metadata map[string]string
	scheme   *string
}

// NewServiceInstance creates a ServiceInstance from all of its fields. The
// given ports slice, metadata map and string pointers are copied.
func NewServiceInstance(
	instanceID, serviceID, host *string,
	ports []Port,
	secure bool,
	uri *string,
	metadata map[string]string,
	scheme *string,
) ServiceInstance {
	return ServiceInstance{
		instanceID: copyString(instanceID),
		serviceID:  copyString(serviceID),
		host:       copyString(host),
		ports:      copyPorts(ports),
		secure:     secure,
		uri:        copyString(uri),
		metadata:   copyMetadata(metadata),
		scheme:     copyString(scheme),
	}
}

// InstanceID is the optional identifier of this specific instance.
func (si ServiceInstance) InstanceID() *string {
	return copyString(si.instanceID)
}

// ServiceID is the optional identifier of the logical service; several
// instances may share it.
func (si ServiceInstance) ServiceID() *string {
	return copyString(si.serviceID)
}

// Host is the optional hostname or IP address of the instance.
func (si ServiceInstance) Host() *string {
	return copyString(si.host)
}

// Ports returns all available ports, or nil when none were reported.
func (si ServiceInstance) Ports() []Port {
	return copyPorts(si.ports)
}

// PortByName returns the port with the given name, if any.
func (si ServiceInstance) PortByName(name string) (Port, bool) {
	port, ok := lo.Find(si.ports, func(p Port) bool {
		return p.name != nil && *p.name == name
	})
	if !ok {
		return Port{}, false
	}
	return port.DeepCopy(), true
}

// IsSecure reports whether the default port uses TLS.
func (si ServiceInstance) IsSecure() bool {
	return si.secure
}

// URI is the optional precomputed connection URI.
func (si ServiceInstance) URI() *string {
	return copyString(si.uri)
}

// Metadata returns the backend-supplied attributes of the instance.
func (si ServiceInstance) Metadata() map[string]string {
	return copyMetadata(si.metadata)
}

// Scheme is the optional URI scheme.
func (si ServiceInstance) Scheme() *string {
	return copyString(si.scheme)
}

func (si ServiceInstance) String() string {
	ports := "nil"
	if si.ports != nil {
		ports = "[" + strings.Join(lo.Map(si.ports, func(p Port, _ int) string {
			return p.String()
		}), ", ") + "]"
	}
	return fmt.Sprintf("ServiceInstance{instanceID: %s, serviceID: %s, host: %s, ports: %s, secure: %t, uri: %s, metadata: %v, scheme: %s}",
		formatString(si.instanceID), formatString(si.serviceID), formatString(si.host), ports,
		si.secure, formatString(si.uri), si.metadata, formatString(si.scheme))
}

// PortDocument is the wire form of Port. Required fields are pointers so that
// a missing value can be told apart from a zero value while decoding.
type PortDocument struct {
	// +optional
	Name *string `json:"name,omitempty"`
	// +required
	Port *uint32 `json:"port"`
	// +required
	Protocol *string `json:"protocol"`
	// +optional
	AppProtocol *string `json:"app_protocol,omitempty"`
}

// ServiceInstanceDocument is the wire form of ServiceInstance. Ports and
// Metadata are always emitted so that null and empty survive a round trip.
// Decoders that pick scalar types from the target struct, such as
// sigs.k8s.io/yaml, should decode into this type rather than ServiceInstance.
type ServiceInstanceDocument struct {
	// +optional
	InstanceID *string `json:"instance_id,omitempty"`
	// +optional
	ServiceID *string `json:"service_id,omitempty"`
	// +optional
	Host *string `json:"host,omitempty"`
	// +optional
	Ports []PortDocument `json:"ports"`
	// +required
	Secure *bool `json:"secure"`
	// +optional
	URI *string `json:"uri,omitempty"`
	// Metadata may be missing or null, both decode to a nil map
	// +optional
	Metadata map[string]string `json:"metadata"`
	// +optional
	Scheme *string `json:"scheme,omitempty"`
}

var (
	errPortMissingPort       = errors.New("port: missing required field \"port\"")
	errPortMissingProtocol   = errors.New("port: missing required field \"protocol\"")
	errInstanceMissingSecure = errors.New("service instance: missing required field \"secure\"")
)

// ToDocument returns the wire form of the Port.
func (p Port) ToDocument() PortDocument {
	port := p.port
	protocol := p.protocol
	return PortDocument{
		Name:        copyString(p.name),
		Port:        &port,
		Protocol:    &protocol,
		AppProtocol: copyString(p.appProtocol),
	}
}

// ToPort converts the document into a Port, failing if a required field is missing.
func (d *PortDocument) ToPort() (Port, error) {
	if d.Port == nil {
		return Port{}, errPortMissingPort
	}
	if d.Protocol == nil {
		return Port{}, errPortMissingProtocol
	}
	return NewPort(d.Name, *d.Port, *d.Protocol, d.AppProtocol), nil
}

// ToDocument returns the wire form of the ServiceInstance.
func (si ServiceInstance) ToDocument() ServiceInstanceDocument {
	var ports []PortDocument
	if si.ports != nil {
		ports = make([]PortDocument, 0, len(si.ports))
		for _, p := range si.ports {
			ports = append(ports, p.ToDocument())
		}
	}

	secure := si.secure
	return ServiceInstanceDocument{
		InstanceID: copyString(si.instanceID),
		ServiceID:  copyString(si.serviceID),
		Host:       copyString(si.host),
		Ports:      ports,
		Secure:     &secure,
		URI:        copyString(si.uri),
		Metadata:   copyMetadata(si.metadata),
		Scheme:     copyString(si.scheme),
	}
}

// ToServiceInstance converts the document into a ServiceInstance, failing if a
// required field of the instance or of one of its ports is missing.
func (d *ServiceInstanceDocument) ToServiceInstance() (ServiceInstance, error) {
	if d.Secure == nil {
		return ServiceInstance{}, errInstanceMissingSecure
	}

	var ports []Port
	if d.Ports != nil {
		ports = make([]Port, 0, len(d.Ports))
		for i := range d.Ports {
			port, err := d.Ports[i].ToPort()
			if err != nil {
				return ServiceInstance{}, fmt.Errorf("ports[%d]: %w", i, err)
			}
			ports = append(ports, port)
		}
	}

	return NewServiceInstance(d.InstanceID, d.ServiceID, d.Host, ports, *d.Secure, d.URI, d.Metadata, d.Scheme), nil
}

// MarshalJSON implements json.Marshaler.
func (p Port) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToDocument())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Port) UnmarshalJSON(data []byte) error {
	var doc PortDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	port, err := doc.ToPort()
	if err != nil {
		return err
	}
	*p = port
	return nil
}

// MarshalJSON implements json.Marshaler.
func (si ServiceInstance) MarshalJSON() ([]byte, error) {
	return json.Marshal(si.ToDocument())
}

// UnmarshalJSON implements json.Unmarshaler.
func (si *ServiceInstance) UnmarshalJSON(data []byte) error {
	var doc ServiceInstanceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	instance, err := doc.ToServiceInstance()
	if err != nil {
		return err
	}
	*si = instance
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

func copyPorts(ports []Port) []Port {
	if ports == nil {
		return nil
	}
	out := make([]Port, len(ports))
	for i := range ports {
		ports[i].DeepCopyInto(&out[i])
	}
	return out
}

// copyMetadata clones metadata, keeping nil as nil.
func copyMetadata(metadata map[string]string) map[string]string {
	return maps.Clone(metadata)
}

func formatString(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q", *s)
}
