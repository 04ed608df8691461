package v1alpha1

import (
	"testing"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"
)

func TestValidatePort(t *testing.T) {
	tests := []struct {
		name        string
		port        Port
		expectedErr []field.ErrorType
		description string
	}{
		{
			name:        "valid named tcp port",
			port:        NewPort(ptr.To("http"), 8080, "TCP", ptr.To("http")),
			description: "a named TCP port with app protocol should be valid",
		},
		{
			name:        "valid unnamed port",
			port:        NewPort(nil, 0, "UDP", nil),
			description: "port 0 is inside the accepted range",
		},
		{
			name:        "port number out of range",
			port:        NewPort(nil, 65536, "TCP", nil),
			expectedErr: []field.ErrorType{field.ErrorTypeInvalid},
			description: "port numbers above 65535 should be rejected",
		},
		{
			name:        "missing protocol",
			port:        NewPort(nil, 80, "", nil),
			expectedErr: []field.ErrorType{field.ErrorTypeRequired},
			description: "protocol is required",
		},
		{
			name:        "unsupported protocol",
			port:        NewPort(nil, 80, "ICMP", nil),
			expectedErr: []field.ErrorType{field.ErrorTypeNotSupported},
			description: "only TCP, UDP and SCTP are supported",
		},
		{
			name:        "invalid port name",
			port:        NewPort(ptr.To("Not_A_Port_Name"), 80, "TCP", nil),
			expectedErr: []field.ErrorType{field.ErrorTypeInvalid},
			description: "port names must be IANA service names",
		},
		{
			name:        "empty app protocol",
			port:        NewPort(nil, 80, "SCTP", ptr.To("")),
			expectedErr: []field.ErrorType{field.ErrorTypeInvalid},
			description: "app protocol must not be empty when set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePort(tt.port, field.NewPath("port"))
			assertErrorTypes(t, tt.description, errs, tt.expectedErr)
		})
	}
}

func TestValidateServiceInstance(t *testing.T) {
	validPort := NewPort(ptr.To("http"), 80, "TCP", nil)

	tests := []struct {
		name        string
		instance    ServiceInstance
		expectedErr []field.ErrorType
		description string
	}{
		{
			name:        "fully populated instance",
			instance:    NewServiceInstance(ptr.To("id"), ptr.To("web"), ptr.To("web.default.svc"), []Port{validPort}, false, ptr.To("http://web.default.svc:80"), map[string]string{"a": "b"}, ptr.To("http")),
			description: "a complete instance should be valid",
		},
		{
			name:        "all optionals absent",
			instance:    NewServiceInstance(nil, nil, nil, nil, false, nil, nil, nil),
			description: "absent optional fields are never validation errors",
		},
		{
			name:        "ipv6 host",
			instance:    NewServiceInstance(nil, nil, ptr.To("fd00::1"), nil, false, nil, nil, nil),
			description: "IP addresses are valid hosts",
		},
		{
			name:        "invalid host",
			instance:    NewServiceInstance(nil, nil, ptr.To("not a host"), nil, false, nil, nil, nil),
			expectedErr: []field.ErrorType{field.ErrorTypeInvalid},
			description: "hosts must be IPs or DNS subdomains",
		},
		{
			name:        "empty host",
			instance:    NewServiceInstance(nil, nil, ptr.To(""), nil, false, nil, nil, nil),
			expectedErr: []field.ErrorType{field.ErrorTypeInvalid},
			description: "empty host is rejected when present",
		},
		{
			name:        "duplicate port names",
			instance:    NewServiceInstance(nil, nil, nil, []Port{validPort, NewPort(ptr.To("http"), 81, "TCP", nil)}, false, nil, nil, nil),
			expectedErr: []field.ErrorType{field.ErrorTypeDuplicate},
			description: "port names must be unique within an instance",
		},
		{
			name:        "invalid nested port",
			instance:    NewServiceInstance(nil, nil, nil, []Port{NewPort(nil, 80, "", nil)}, false, nil, nil, nil),
			expectedErr: []field.ErrorType{field.ErrorTypeRequired},
			description: "port errors are reported for the instance",
		},
		{
			name:        "relative uri",
			instance:    NewServiceInstance(nil, nil, nil, nil, false, ptr.To("/path/only"), nil, nil),
			expectedErr: []field.ErrorType{field.ErrorTypeInvalid},
			description: "uri must be absolute",
		},
		{
			name:        "empty metadata key",
			instance:    NewServiceInstance(nil, nil, nil, nil, false, nil, map[string]string{"": "v"}, nil),
			expectedErr: []field.ErrorType{field.ErrorTypeRequired},
			description: "metadata keys must not be empty",
		},
		{
			name:        "empty identifiers and scheme",
			instance:    NewServiceInstance(ptr.To(""), ptr.To(""), nil, nil, false, nil, nil, ptr.To("")),
			expectedErr: []field.ErrorType{field.ErrorTypeInvalid, field.ErrorTypeInvalid, field.ErrorTypeInvalid},
			description: "present identifiers and scheme must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateServiceInstance(tt.instance, field.NewPath("instance"))
			assertErrorTypes(t, tt.description, errs, tt.expectedErr)
		})
	}
}

func assertErrorTypes(t *testing.T, description string, errs field.ErrorList, expected []field.ErrorType) {
	t.Helper()

	if len(errs) != len(expected) {
		t.Fatalf("%s: expected %d errors, got %d: %v", description, len(expected), len(errs), errs)
	}
	for i := range errs {
		if errs[i].Type != expected[i] {
			t.Errorf("%s: error %d: expected type %s, got %s (%v)", description, i, expected[i], errs[i].Type, errs[i])
		}
	}
}
