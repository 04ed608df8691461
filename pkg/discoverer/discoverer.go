// Package discoverer defines the contract every discovery backend implements.
// A backend translates its native records (pods, catalog entries, containers,
// ...) into v1alpha1.ServiceInstance values. Anything that targets a backend,
// such as the service name or namespace to query, is configured on the
// implementing type when it is constructed, never per call.
package discoverer

import (
	"context"

	"github.com/cloudpilot-ai/svcdiscovery/pkg/apis/discovery/v1alpha1"
)

// DiscoveryService returns the currently discoverable instances of a backend.
type DiscoveryService interface {
	// DiscoverInstances returns the instances the backend reports right now.
	// An empty result means nothing is discoverable and is not an error.
	// Ordering is unspecified. Implementations document whether they may be
	// called concurrently and how they react to ctx being cancelled.
	DiscoverInstances(ctx context.Context) ([]v1alpha1.ServiceInstance, error)
}

// DiscoveryServiceFunc adapts an ordinary function to a DiscoveryService.
type DiscoveryServiceFunc func(ctx context.Context) ([]v1alpha1.ServiceInstance, error)

// DiscoverInstances calls f(ctx).
func (f DiscoveryServiceFunc) DiscoverInstances(ctx context.Context) ([]v1alpha1.ServiceInstance, error) {
	return f(ctx)
}

var _ DiscoveryService = DiscoveryServiceFunc(nil)
