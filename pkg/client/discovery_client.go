// Package client provides DiscoveryClient, the entry point call sites use to
// list service instances without depending on a concrete discovery backend.
package client

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/cloudpilot-ai/svcdiscovery/pkg/apis/discovery/v1alpha1"
	"github.com/cloudpilot-ai/svcdiscovery/pkg/discoverer"
)

// DiscoveryClient is the bridge between a DiscoveryService and its callers
type DiscoveryClient[T discoverer.DiscoveryService] struct {
	service T
}

// NewDiscoveryClient creates a DiscoveryClient bound to ds for its whole lifetime
func NewDiscoveryClient[T discoverer.DiscoveryService](ds T) *DiscoveryClient[T] {
	return &DiscoveryClient[T]{
		service: ds,
	}
}

// Service returns the wrapped DiscoveryService
func (c *DiscoveryClient[T]) Service() T {
	return c.service
}

// GetInstances returns a list of discovered instances. The result and error of
// the wrapped service are returned as is.
func (c *DiscoveryClient[T]) GetInstances(ctx context.Context) ([]v1alpha1.ServiceInstance, error) {
	klog.V(5).Infof("Discovering instances with %T", c.service)

	instances, err := c.service.DiscoverInstances(ctx)
	if err == nil {
		klog.V(5).Infof("Discovered %d instances with %T", len(instances), c.service)
	}
	return instances, err
}
