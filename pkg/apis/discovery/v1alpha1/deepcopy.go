package v1alpha1

// DeepCopyInto copies the receiver into out. in must be non-nil.
func (in *Port) DeepCopyInto(out *Port) {
	*out = *in
	out.name = copyString(in.name)
	out.appProtocol = copyString(in.appProtocol)
}

// DeepCopy returns an independent copy of the Port.
func (in Port) DeepCopy() Port {
	var out Port
	in.DeepCopyInto(&out)
	return out
}

// DeepCopyInto copies the receiver into out. in must be non-nil.
func (in *ServiceInstance) DeepCopyInto(out *ServiceInstance) {
	*out = *in
	out.instanceID = copyString(in.instanceID)
	out.serviceID = copyString(in.serviceID)
	out.host = copyString(in.host)
	out.ports = copyPorts(in.ports)
	out.uri = copyString(in.uri)
	out.metadata = copyMetadata(in.metadata)
	out.scheme = copyString(in.scheme)
}

// DeepCopy returns an independent copy of the ServiceInstance.
func (in ServiceInstance) DeepCopy() ServiceInstance {
	var out ServiceInstance
	in.DeepCopyInto(&out)
	return out
}
