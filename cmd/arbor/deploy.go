package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/arbor-ui/arbor/pkg/deploy"
	"github.com/arbor-ui/arbor/pkg/server"
)

func deployCmd() *cobra.Command {
	var (
		bucket string
		prefix string
		root   string
		region string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload a static snapshot of the rendered app to S3",
		Long: `Render the root component once and upload the resulting page
to an S3 bucket. The snapshot is the first paint only; interactive
sessions need a running server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bucket == "" {
				return fmt.Errorf("--bucket is required")
			}

			ctx := cmd.Context()

			quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
			page, err := server.RenderPage(demoRegistry(), root, server.WithLogger(quiet))
			if err != nil {
				return fmt.Errorf("render %s: %w", root, err)
			}

			var loadOpts []func(*awsconfig.LoadOptions) error
			if region != "" {
				loadOpts = append(loadOpts, awsconfig.WithRegion(region))
			}
			cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
			if err != nil {
				return fmt.Errorf("load aws config: %w", err)
			}

			d := deploy.New(s3.NewFromConfig(cfg), bucket,
				deploy.WithPrefix(prefix),
				deploy.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
			)

			files := map[string][]byte{
				"index.html": []byte(page),
			}
			if err := d.Deploy(ctx, files); err != nil {
				return err
			}

			success("deployed %s to s3://%s/%s", root, bucket, prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Target S3 bucket (required)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&root, "root", "App", "Root component name")
	cmd.Flags().StringVar(&region, "region", "", "AWS region override")

	return cmd
}
