package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/tendant/presign-service/pkg/presign"
)

// ExtensionMode controls where vendor extension parameters end up.
type ExtensionMode string

const (
	// ExtensionAppend merges extension parameters into the URL after signing.
	ExtensionAppend ExtensionMode = "append"

	// ExtensionSigned adds extension parameters to the request before signing,
	// so they are covered by the signature.
	ExtensionSigned ExtensionMode = "signed"
)

// Config options for the S3 signer
type Config struct {
	Region          string // default: cn-east-1
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool
	ExtensionMode   ExtensionMode // default: append
}

// Backend signs GET and PUT URLs for one bucket with the S3 presign client
type Backend struct {
	presignClient *s3.PresignClient
	bucket        string
	mode          ExtensionMode
}

var _ presign.Signer = (*Backend)(nil)

// New creates a signer for config.Bucket. Signing is local; nothing here contacts the provider.
func New(config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if config.AccessKeyID == "" || config.SecretAccessKey == "" {
		return nil, errors.New("access key id and secret access key are required")
	}

	if config.Region == "" {
		config.Region = "cn-east-1"
	}

	switch config.ExtensionMode {
	case "":
		config.ExtensionMode = ExtensionAppend
	case ExtensionAppend, ExtensionSigned:
	default:
		return nil, fmt.Errorf("unknown extension mode %q", config.ExtensionMode)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(config.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.AccessKeyID,
			config.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
		o.UsePathStyle = config.UsePathStyle
	})

	return &Backend{
		presignClient: s3.NewPresignClient(client),
		bucket:        config.Bucket,
		mode:          config.ExtensionMode,
	}, nil
}

// Bucket returns the bucket URLs are signed for
func (b *Backend) Bucket() string {
	return b.bucket
}

// Sign returns a presigned URL for req
func (b *Backend) Sign(ctx context.Context, req presign.SignRequest) (string, error) {
	switch req.Method {
	case http.MethodGet:
		return b.signGet(ctx, req)
	case http.MethodPut:
		return b.signPut(ctx, req)
	default:
		return "", fmt.Errorf("%w: %s", presign.ErrUnsupportedMethod, req.Method)
	}
}

func (b *Backend) signGet(ctx context.Context, req presign.SignRequest) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(req.Key),
	}

	signParams := b.mode == ExtensionSigned && len(req.Params) > 0

	result, err := b.presignClient.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expires(req)
		if signParams {
			opts.ClientOptions = append(opts.ClientOptions, withAPIOption(addQueryParams(req.Params)))
		}
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	if signParams {
		return result.URL, nil
	}
	return presign.MergeQuery(result.URL, req.Params)
}

func (b *Backend) signPut(ctx context.Context, req presign.SignRequest) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(req.Key),
	}
	if req.ContentLength > 0 {
		input.ContentLength = aws.Int64(req.ContentLength)
	}

	result, err := b.presignClient.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expires(req)
		if req.ContentLength > 0 {
			opts.ClientOptions = append(opts.ClientOptions, withAPIOption(pinContentLength(req.ContentLength)))
		}
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return result.URL, nil
}

func expires(req presign.SignRequest) time.Duration {
	if req.Expires <= 0 {
		return presign.DefaultExpiration
	}
	return req.Expires
}

func withAPIOption(fn func(*middleware.Stack) error) func(*s3.Options) {
	return func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, fn)
	}
}

// addQueryParams sets params on the request query during the build step,
// ahead of the presign middleware in finalize.
func addQueryParams(params map[string]string) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Build.Add(middleware.BuildMiddlewareFunc("Presign:AddQueryParams",
			func(ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler) (middleware.BuildOutput, middleware.Metadata, error) {
				req, ok := in.Request.(*smithyhttp.Request)
				if !ok {
					return middleware.BuildOutput{}, middleware.Metadata{}, fmt.Errorf("unknown transport type %T", in.Request)
				}

				query := req.URL.Query()
				for key, value := range params {
					query.Set(key, value)
				}
				req.URL.RawQuery = query.Encode()

				return next.HandleBuild(ctx, in)
			}), middleware.After)
	}
}

// pinContentLength makes the signer include content-length in the signed
// headers, so the provider rejects bodies of any other size.
func pinContentLength(n int64) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Build.Add(middleware.BuildMiddlewareFunc("Presign:PinContentLength",
			func(ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler) (middleware.BuildOutput, middleware.Metadata, error) {
				req, ok := in.Request.(*smithyhttp.Request)
				if !ok {
					return middleware.BuildOutput{}, middleware.Metadata{}, fmt.Errorf("unknown transport type %T", in.Request)
				}
				req.ContentLength = n
				return next.HandleBuild(ctx, in)
			}), middleware.After)
	}
}
