package v1alpha1

import (
	"math"
	"net"
	"net/url"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

const maxPortNumber = math.MaxUint16

// supportedProtocols are the transport protocols accepted by ValidatePort.
var supportedProtocols = sets.New(
	string(corev1.ProtocolTCP),
	string(corev1.ProtocolUDP),
	string(corev1.ProtocolSCTP),
)

// ValidatePort checks a Port for values a caller would normally reject.
// Construction never validates, so backends that care call this explicitly.
func ValidatePort(port Port, fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList

	if port.name != nil {
		for _, msg := range validation.IsValidPortName(*port.name) {
			allErrs = append(allErrs, field.Invalid(fldPath.Child("name"), *port.name, msg))
		}
	}

	if port.port > maxPortNumber {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("port"), port.port,
			validation.InclusiveRangeError(0, maxPortNumber)))
	}

	switch {
	case port.protocol == "":
		allErrs = append(allErrs, field.Required(fldPath.Child("protocol"), ""))
	case !supportedProtocols.Has(port.protocol):
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("protocol"), port.protocol, sets.List(supportedProtocols)))
	}

	if port.appProtocol != nil && *port.appProtocol == "" {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("app_protocol"), "", "must not be empty when set"))
	}

	return allErrs
}

// ValidateServiceInstance checks a ServiceInstance and all of its ports.
func ValidateServiceInstance(instance ServiceInstance, fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList

	if instance.instanceID != nil && *instance.instanceID == "" {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("instance_id"), "", "must not be empty when set"))
	}
	if instance.serviceID != nil && *instance.serviceID == "" {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("service_id"), "", "must not be empty when set"))
	}

	if instance.host != nil {
		allErrs = append(allErrs, validateHost(*instance.host, fldPath.Child("host"))...)
	}

	portNames := sets.New[string]()
	for i, port := range instance.ports {
		idxPath := fldPath.Child("ports").Index(i)
		allErrs = append(allErrs, ValidatePort(port, idxPath)...)

		if port.name == nil {
			continue
		}
		if portNames.Has(*port.name) {
			allErrs = append(allErrs, field.Duplicate(idxPath.Child("name"), *port.name))
		}
		portNames.Insert(*port.name)
	}

	if instance.uri != nil {
		u, err := url.Parse(*instance.uri)
		switch {
		case err != nil:
			allErrs = append(allErrs, field.Invalid(fldPath.Child("uri"), *instance.uri, err.Error()))
		case !u.IsAbs():
			allErrs = append(allErrs, field.Invalid(fldPath.Child("uri"), *instance.uri, "must be an absolute URI"))
		}
	}

	for key := range instance.metadata {
		if key == "" {
			allErrs = append(allErrs, field.Required(fldPath.Child("metadata").Key(key), "metadata keys must not be empty"))
		}
	}

	if instance.scheme != nil && *instance.scheme == "" {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("scheme"), "", "must not be empty when set"))
	}

	return allErrs
}

// validateHost accepts an IP address or a DNS-1123 subdomain.
func validateHost(host string, fldPath *field.Path) field.ErrorList {
	if host == "" {
		return field.ErrorList{field.Invalid(fldPath, host, "must not be empty when set")}
	}
	if net.ParseIP(host) != nil {
		return nil
	}

	var allErrs field.ErrorList
	for _, msg := range validation.IsDNS1123Subdomain(host) {
		allErrs = append(allErrs, field.Invalid(fldPath, host, msg))
	}
	return allErrs
}
