package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"

	"github.com/cloudpilot-ai/svcdiscovery/pkg/aggregator"
	"github.com/cloudpilot-ai/svcdiscovery/pkg/apis/discovery/v1alpha1"
	"github.com/cloudpilot-ai/svcdiscovery/pkg/client"
	"github.com/cloudpilot-ai/svcdiscovery/pkg/codec"
	"github.com/cloudpilot-ai/svcdiscovery/pkg/config"
	"github.com/cloudpilot-ai/svcdiscovery/pkg/discoverer"
)

var (
	files        []string
	inputFormat  string
	outputFormat string
	validate     bool

	rootCmd = &cobra.Command{
		Use:   "instancectl",
		Short: "Inspect and convert service instance documents",
		Long: `instancectl reads lists of service instances in JSON or YAML from one or more documents,
merges them in document order, optionally validates them, and writes them back out in the
requested format. A document that cannot be read is skipped with a warning unless every
document fails. It is useful for checking the output of a
discovery backend or preparing fixtures for one.`,
		SilenceUsage: true,
		RunE:         run,
	}
)

func main() {
	klog.InitFlags(nil)

	rootCmd.Flags().StringSliceVarP(&files, "file", "f", []string{config.StdinFile}, "Instance document to read, - for stdin; repeat to merge several documents")
	rootCmd.Flags().StringVar(&inputFormat, "input-format", string(config.DefaultInputFormat), "Format of the instance document (json or yaml)")
	rootCmd.Flags().StringVarP(&outputFormat, "output-format", "o", string(config.DefaultOutputFormat), "Format to write instances in (json or yaml)")
	rootCmd.Flags().BoolVar(&validate, "validate", false, "Validate every instance before writing it")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	in, err := codec.ParseFormat(inputFormat)
	if err != nil {
		return fmt.Errorf("invalid --input-format: %w", err)
	}
	out, err := codec.ParseFormat(outputFormat)
	if err != nil {
		return fmt.Errorf("invalid --output-format: %w", err)
	}

	cfg := &config.Config{
		Files:        files,
		InputFormat:  in,
		OutputFormat: out,
		Validate:     validate,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	instances, err := newDiscoveryClient(cfg).GetInstances(ctx)
	if err != nil {
		return fmt.Errorf("failed to read instances: %w", err)
	}
	klog.V(2).Infof("Read %d instances from %d documents", len(instances), len(cfg.Files))

	if cfg.Validate {
		var allErrs field.ErrorList
		for i := range instances {
			allErrs = append(allErrs, v1alpha1.ValidateServiceInstance(instances[i], field.NewPath("instances").Index(i))...)
		}
		if len(allErrs) > 0 {
			return fmt.Errorf("invalid instances: %w", allErrs.ToAggregate())
		}
	}

	data, err := codec.EncodeInstances(cfg.OutputFormat, instances)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("failed to write instances: %w", err)
	}
	if cfg.OutputFormat == codec.FormatJSON {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

// newDiscoveryClient fronts one aggregation source per configured document
func newDiscoveryClient(cfg *config.Config) *client.DiscoveryClient[*aggregator.InstanceAggregator] {
	sources := make([]aggregator.Source, 0, len(cfg.Files))
	for _, name := range cfg.Files {
		sources = append(sources, aggregator.Source{
			Name:    name,
			Service: documentService(name, cfg.InputFormat),
		})
	}
	return client.NewDiscoveryClient(aggregator.NewInstanceAggregator(sources...))
}

// documentService reads the instances from the named document on every call
func documentService(name string, format codec.Format) discoverer.DiscoveryServiceFunc {
	return func(ctx context.Context) ([]v1alpha1.ServiceInstance, error) {
		var r io.Reader = os.Stdin
		if name != config.StdinFile {
			f, err := os.Open(name)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return codec.DecodeInstances(format, data)
	}
}
